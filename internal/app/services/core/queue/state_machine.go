package queue

import (
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/exceptions"
)

// allowedTransitions is the full patient-flow state machine. completed and
// removed are terminal; removed is reachable from any non-terminal state.
var allowedTransitions = map[string][]string{
	constvars.QueueStatusWaiting:        {constvars.QueueStatusTriaged, constvars.QueueStatusRemoved},
	constvars.QueueStatusTriaged:        {constvars.QueueStatusInConsultation, constvars.QueueStatusRemoved},
	constvars.QueueStatusInConsultation: {constvars.QueueStatusCompleted, constvars.QueueStatusRemoved},
	constvars.QueueStatusCompleted:      {},
	constvars.QueueStatusRemoved:        {},
}

func validateTransition(from, to string) error {
	next, ok := allowedTransitions[from]
	if !ok {
		return exceptions.ErrQueueInvalidTransition(from, to)
	}
	for _, candidate := range next {
		if candidate == to {
			return nil
		}
	}
	return exceptions.ErrQueueInvalidTransition(from, to)
}

func isTerminal(status string) bool {
	return status == constvars.QueueStatusCompleted || status == constvars.QueueStatusRemoved
}

package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	MongoDB        *mongo.Client
	Redis          *redis.Client
	Minio          *minio.Client
	RabbitMQ       *amqp091.Connection
	Logger         *zap.Logger
	DriverConfig   *DriverConfig
	InternalConfig *InternalConfig
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if err := b.MongoDB.Disconnect(ctx); err != nil {
		return err
	}
	log.Println("Successfully closing MongoDB")

	if err := b.Redis.Close(); err != nil {
		return err
	}
	log.Println("Successfully closing Redis")

	if b.RabbitMQ != nil {
		if err := b.RabbitMQ.Close(); err != nil {
			return err
		}
		log.Println("Successfully closing RabbitMQ")
	}

	if err := b.Logger.Sync(); err != nil {
		return err
	}
	log.Println("Successfully closing Logger")

	return nil
}

type DriverConfig struct {
	MongoDB  MongoDB
	Redis    Redis
	Minio    Minio
	RabbitMQ RabbitMQ
	Logger   Logger
}

type InternalConfig struct {
	App   App
	FHIR  FHIR
	Minio AppMinio
}

type App struct {
	Env                      string
	Port                     string
	Version                  string
	Timezone                 string
	EndpointPrefix           string
	MaxRequests              int
	ShutdownTimeoutInSeconds int
	RequestTimeoutInSeconds  int
	InternalAPIKey           string
}

type MongoDB struct {
	Host     string
	Port     string
	DbName   string
	Username string
	Password string
}

type Redis struct {
	Host     string
	Port     string
	Password string
}

type Minio struct {
	Host     string
	Port     string
	Username string
	Password string
	UseSSL   bool
}

type RabbitMQ struct {
	Host     string
	Port     string
	Username string
	Password string
	Enabled  bool
}

type Logger struct {
	Level               string
	OutputFileName      string
	OutputErrorFileName string
}

type FHIR struct {
	BaseUrl                 string
	MaxRequestsPerSecond    int
	RequestTimeoutInSeconds int
}

type AppMinio struct {
	BucketName                   string
	MaxUploadSizeInMB            int
	PresignedURLExpiryTimeInHour int
}

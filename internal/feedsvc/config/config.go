package config

import (
	"os"
	"strconv"
)

type Config struct {
	MongoURI      string
	Port          string
	JWTSecret     string
	CloudinaryURL string
	NatsURL       string
	RateLimit     int
	// MaxPageLimit caps the feed page size. Zero leaves it uncapped.
	MaxPageLimit int
}

func Load() Config {
	return Config{
		MongoURI:      os.Getenv("MONGODB_URI"), // expected to be like: mongodb://localhost:27017/gameshelf
		Port:          os.Getenv("FEED_SERVICE_PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET_KEY"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		NatsURL:       os.Getenv("NATS_URL"),
		RateLimit:     atoiOrZero(os.Getenv("RATE_LIMIT")),
		MaxPageLimit:  atoiOrZero(os.Getenv("FEED_MAX_LIMIT")),
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

package config

import "time"

type Config struct {
	Web     Web
	Cors    Cors
	Session Session
	Cart    Cart
	Backend Backend
	DB      DB
	Mongo   Mongo
	Rate    Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:4000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string
}

type Session struct {
	Lifetime time.Duration `conf:"default:720h"`
}

type Cart struct {
	// Driver selects the durable storage behind the cart store:
	// memory, postgres or mongo.
	Driver string `conf:"default:memory"`

	// RequireVariant rejects adds that name a product with declared
	// variants but select none of them.
	RequireVariant bool `conf:"default:true"`
}

type Backend struct {
	URL            string        `conf:"default:http://localhost:8000/api"`
	Timeout        time.Duration `conf:"default:10s"`
	BreakerHalfMax uint32        `conf:"default:3"`
	BreakerCool    time.Duration `conf:"default:30s"`
}

type DB struct {
	User       string `conf:"default:postgres"`
	Password   string `conf:"default:postgres,mask"`
	Host       string `conf:"default:localhost"`
	Name       string `conf:"default:varejo"`
	DisableTLS bool   `conf:"default:true"`
}

type Mongo struct {
	URI      string `conf:"default:mongodb://localhost:27017"`
	Database string `conf:"default:varejo"`
}

type Rate struct {
	Burst    int           `conf:"default:20"`
	Expiry   time.Duration `conf:"default:1h"`
	Interval time.Duration `conf:"default:50ms"`
}

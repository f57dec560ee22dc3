package db

import (
	"fmt"
	"os"

	"github.com/go-pg/pg"

	starCtx "github.com/projectroom119/Quizzy-TG-Mini-App/services/starapi/context"
)

// Client is a Postgres client.
// It wraps a pool of Postgres DB connections.
type Client struct {
	*pg.DB
	config starCtx.Config
}

type dbLogger struct{}

func (d dbLogger) BeforeQuery(q *pg.QueryEvent) {
}

func (d dbLogger) AfterQuery(q *pg.QueryEvent) {
	fmt.Println(q.FormattedQuery())
}

// NewDBClient creates a Postgres client
func NewDBClient(config starCtx.Config) *Client {
	db := pg.Connect(&pg.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Database.Host, config.Database.Port),
		User:     config.Database.User,
		Password: config.Database.Pass,
		Database: config.Database.Name,
		PoolSize: config.Database.Pool,
	})
	if os.Getenv("PG_DEBUG_QUERY") == "true" {
		db.AddQueryHook(dbLogger{})
	}

	return &Client{db, config}
}

// Add adds any number of models as database rows
func (c *Client) Add(model ...interface{}) error {
	return c.Insert(model...)
}

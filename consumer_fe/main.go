package main

import (
	"sync"

	"github.com/kataras/iris/v12"
	"github.com/xor-shift/montecarlo/common"
	"github.com/xor-shift/montecarlo/config"
)

// latest holds the most recently consumed result. The consumer goroutine
// writes it while HTTP handlers read it.
type latest struct {
	mu     sync.RWMutex
	result common.Result
	seen   uint64
}

func (l *latest) Set(r common.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.result = r
	l.seen++
}

// Get returns the last result and how many results have been seen so far.
func (l *latest) Get() (common.Result, uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.result, l.seen
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("loading config failed: %s", err)
	}

	app := iris.New()
	app.Logger().SetLevel(cfg.LogLevel)

	last := &latest{}

	consumer, err := common.NewAMQPConsumer(
		cfg.AMQPURL,
		"consumer_fe_queue",
		"consumer_fe_consumer",
		app.Logger(),
		func(r common.Result) error {
			app.Logger().Debugf("received %s", r.Summary())
			last.Set(r)
			return nil
		})
	if err != nil {
		app.Logger().Fatalf("creating the amqp consumer failed: %s", err)
	}
	defer consumer.Close()

	if err = consumer.Start(); err != nil {
		app.Logger().Fatalf("starting the amqp consumer failed: %s", err)
	}

	app.Get("/test", func(ctx iris.Context) {
		_, _ = ctx.Text("OK")
	})

	app.Get("/data", func(ctx iris.Context) {
		result, seen := last.Get()
		if seen == 0 {
			ctx.StatusCode(iris.StatusNotFound)
			_, _ = ctx.Text("no results yet")
			return
		}

		_, _ = ctx.JSON(result)
	})

	if err = app.Listen(cfg.ConsumerFEAddr()); err != nil {
		app.Logger().Fatalf("listening failed: %s", err)
	}
}

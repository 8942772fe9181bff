package main

import (
	"fmt"
	"net/http"

	"github.com/kataras/iris/v12"
	"github.com/xor-shift/montecarlo/common"
	"github.com/xor-shift/montecarlo/config"
)

type producer struct {
	cfg     *config.Config
	publish func(common.Result) error
}

// runRequest decodes and validates a request body, runs it and publishes the
// result. The returned status is the HTTP status to answer with.
func (p *producer) runRequest(body []byte) (common.Result, int, error) {
	defaults := common.RunRequest{
		Seed:    p.cfg.DefaultSeed,
		N:       10_000_000,
		Workers: 1,
	}

	if defaults.N > p.cfg.MaxSamples && p.cfg.MaxSamples != 0 {
		defaults.N = p.cfg.MaxSamples
	}

	req, err := common.DecodeRunRequest(body, defaults)
	if err != nil {
		return common.Result{}, http.StatusBadRequest, err
	}

	if err = req.Validate(p.cfg.MaxSamples); err != nil {
		return common.Result{}, http.StatusBadRequest, err
	}

	result := common.Execute(req)

	if err = p.publish(result); err != nil {
		return result, http.StatusBadGateway, fmt.Errorf("publishing result: %w", err)
	}

	return result, http.StatusOK, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("loading config failed: %s", err)
	}

	app := iris.New()
	app.Logger().SetLevel(cfg.LogLevel)

	publisher, err := common.NewAMQPPublisher(cfg.AMQPURL)
	if err != nil {
		app.Logger().Fatalf("creating the amqp publisher failed: %s", err)
	}
	defer publisher.Close()

	p := &producer{
		cfg:     cfg,
		publish: publisher.Publish,
	}

	app.Get("/test", func(ctx iris.Context) {
		_, _ = ctx.Text("OK")
	})

	app.Post("/run", func(ctx iris.Context) {
		body, err := ctx.GetBody()
		if err != nil {
			app.Logger().Printf("/run error (body): %s", err)
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		result, status, err := p.runRequest(body)
		if err != nil {
			if status == http.StatusBadRequest {
				app.Logger().Warnf("/run rejected a request from %s: %s", ctx.RemoteAddr(), err)
			} else {
				app.Logger().Errorf("/run error: %s", err)
			}

			ctx.StatusCode(status)
			_, _ = ctx.Text("%s", err)
			return
		}

		app.Logger().Infof("%s from %s", result.Summary(), ctx.RemoteAddr())

		ctx.StatusCode(status)
		_, _ = ctx.JSON(result)
	})

	if err = app.Listen(cfg.ProducerAddr()); err != nil {
		app.Logger().Fatalf("listening failed: %s", err)
	}
}

package common

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/xor-shift/montecarlo/sampler"
)

// Result is the outcome of one sampling run. It travels as gob over AMQP and
// as JSON over HTTP.
type Result struct {
	Seed    uint64 `json:"seed" mapstructure:"seed"`
	N       uint64 `json:"n" mapstructure:"n"`
	Workers int    `json:"workers" mapstructure:"workers"`
	Inside  uint64 `json:"inside" mapstructure:"inside"`

	Estimate float64 `json:"estimate" mapstructure:"estimate"`
	Error    float64 `json:"error" mapstructure:"error"`

	ElapsedNanos int64 `json:"elapsedNs" mapstructure:"elapsedNs"`
	Timestamp    int64 `json:"ts" mapstructure:"ts"`
}

func NewResult(seed, n uint64, workers int, inside uint64, elapsed time.Duration) Result {
	estimate := sampler.Estimate(inside, n)

	return Result{
		Seed:         seed,
		N:            n,
		Workers:      workers,
		Inside:       inside,
		Estimate:     estimate,
		Error:        estimate - math.Pi,
		ElapsedNanos: elapsed.Nanoseconds(),
		Timestamp:    time.Now().In(time.UTC).Unix(),
	}
}

// Execute runs the sampler for the request and times it.
func Execute(req RunRequest) Result {
	start := time.Now()
	inside, _ := sampler.RunParallel(req.N, req.Seed, req.Workers)

	return NewResult(req.Seed, req.N, req.Workers, inside, time.Since(start))
}

func (r Result) Elapsed() time.Duration {
	return time.Duration(r.ElapsedNanos)
}

func (r Result) Summary() string {
	return fmt.Sprintf("pi(%d) = %1.16f (%d/%d inside, error %+.6f, seed %d, %s)",
		r.N, r.Estimate, r.Inside, r.N, r.Error, r.Seed, r.Elapsed())
}

func EncodeResult(r Result) ([]byte, error) {
	var buffer bytes.Buffer

	if err := gob.NewEncoder(&buffer).Encode(r); err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}

	return buffer.Bytes(), nil
}

func DecodeResult(body []byte) (Result, error) {
	var r Result

	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&r); err != nil {
		return Result{}, fmt.Errorf("decoding result: %w", err)
	}

	return r, nil
}

// RunRequest asks for one run. Workers <= 1 means a single stream.
type RunRequest struct {
	Seed    uint64 `json:"seed" mapstructure:"seed"`
	N       uint64 `json:"n" mapstructure:"n"`
	Workers int    `json:"workers" mapstructure:"workers"`
}

var ErrTooManySamples = errors.New("too many samples requested")

// Validate checks the request against a sample cap. A zero seed is accepted;
// it runs, it is just degenerate.
func (req RunRequest) Validate(maxSamples uint64) error {
	if maxSamples != 0 && req.N > maxSamples {
		return fmt.Errorf("%w (got: %d, max: %d)", ErrTooManySamples, req.N, maxSamples)
	}

	if req.Workers < 0 || req.Workers > sampler.MaxWorkers {
		return fmt.Errorf("bad worker count (got: %d, expected 0..%d)", req.Workers, sampler.MaxWorkers)
	}

	return nil
}

// jsonNumberToString lets weakly typed decoding parse full-width uint64 values
// that would not survive a trip through float64 or int64.
func jsonNumberToString(from reflect.Type, _ reflect.Type, data interface{}) (interface{}, error) {
	if from != reflect.TypeOf(json.Number("")) {
		return data, nil
	}

	return data.(json.Number).String(), nil
}

// DecodeRunRequest decodes a JSON object over defaults. Numbers may be given
// as JSON numbers or strings (hex with a 0x prefix works). Unknown keys are
// rejected.
func DecodeRunRequest(body []byte, defaults RunRequest) (RunRequest, error) {
	var raw map[string]interface{}

	jsonDecoder := json.NewDecoder(bytes.NewReader(body))
	jsonDecoder.UseNumber()

	if err := jsonDecoder.Decode(&raw); err != nil {
		return RunRequest{}, fmt.Errorf("bad request body: %w", err)
	}

	req := defaults

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       jsonNumberToString,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &req,
	})
	if err != nil {
		return RunRequest{}, err
	}

	if err = decoder.Decode(raw); err != nil {
		return RunRequest{}, fmt.Errorf("bad request body: %w", err)
	}

	return req, nil
}

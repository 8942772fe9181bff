package main

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xor-shift/montecarlo/common"
	"github.com/xor-shift/montecarlo/config"
)

func newTestProducer(published *[]common.Result, publishErr error) *producer {
	cfg := config.Defaults()
	cfg.MaxSamples = 100_000

	return &producer{
		cfg: &cfg,
		publish: func(r common.Result) error {
			*published = append(*published, r)
			return publishErr
		},
	}
}

func TestRunRequestPublishes(t *testing.T) {
	var published []common.Result
	p := newTestProducer(&published, nil)

	result, status, err := p.runRequest([]byte(`{"n": 1000}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint64(42), result.Seed)
	assert.Equal(t, uint64(803), result.Inside)
	require.Len(t, published, 1)
	assert.Equal(t, result, published[0])
}

func TestRunRequestDefaultsCappedByMaxSamples(t *testing.T) {
	var published []common.Result
	p := newTestProducer(&published, nil)

	result, status, err := p.runRequest([]byte(`{"seed": 1}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint64(100_000), result.N)
}

func TestRunRequestRejects(t *testing.T) {
	var published []common.Result
	p := newTestProducer(&published, nil)

	for _, body := range []string{
		`{"n": 100001}`,
		`{"workers": 1000}`,
		`{"bogus": true}`,
		`[]`,
	} {
		_, status, err := p.runRequest([]byte(body))
		assert.Errorf(t, err, "body %s", body)
		assert.Equal(t, http.StatusBadRequest, status)
	}

	assert.Empty(t, published)
}

func TestRunRequestPublishFailure(t *testing.T) {
	var published []common.Result
	p := newTestProducer(&published, errors.New("channel closed"))

	_, status, err := p.runRequest([]byte(`{"n": 10}`))
	require.Error(t, err)

	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, err.Error(), "channel closed")
}

package client

import (
	"context"

	"collabuu-backend/apperr"
	"collabuu-backend/logging"
	"collabuu-backend/utils"
)

type sampleFallback struct {
	API
	samples map[string]Resolution
}

// WithSampleFallback serves sample resolutions when Resolve fails transiently
// and the code has a sample. Terminal errors and all write actions pass
// through unchanged.
func WithSampleFallback(api API, samples map[string]Resolution) API {
	return &sampleFallback{API: api, samples: samples}
}

func (f *sampleFallback) Resolve(ctx context.Context, code string) (*Resolution, error) {
	res, err := f.API.Resolve(ctx, code)
	if err == nil || !apperr.Is(err, apperr.KindTransient) {
		return res, err
	}

	sample, ok := f.samples[utils.NormalizeCode(code)]
	if !ok {
		return nil, err
	}
	logging.For("client").Warn().Err(err).Str(logging.CODE, code).Msg("serving sample resolution")
	sample.Sample = true
	return &sample, nil
}

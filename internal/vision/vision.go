// Package vision detects text through the Google Cloud Vision API.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"

	"google.golang.org/api/option"
	visionapi "google.golang.org/api/vision/v1"
)

const featureTextDetection = "TEXT_DETECTION"

// Vision is a detector backed by the images:annotate TEXT_DETECTION feature.
// The underlying API client is created on first use and reused afterwards.
type Vision struct {
	opts []option.ClientOption

	once sync.Once
	svc  *visionapi.Service
	err  error
}

// New returns a Vision detector. credentialsFile may be empty, in which case
// application default credentials are used.
func New(credentialsFile string, opts ...option.ClientOption) *Vision {
	if credentialsFile != "" {
		opts = append([]option.ClientOption{option.WithCredentialsFile(credentialsFile)}, opts...)
	}
	return &Vision{opts: opts}
}

func (v *Vision) service(ctx context.Context) (*visionapi.Service, error) {
	v.once.Do(func() {
		v.svc, v.err = visionapi.NewService(ctx, v.opts...)
		if v.err != nil {
			v.err = fmt.Errorf("failed to create vision client: %w", v.err)
		}
	})
	return v.svc, v.err
}

// DetectText returns the full text annotation of the image, or "" when the
// API found no text.
func (v *Vision) DetectText(ctx context.Context, image []byte) (string, error) {
	svc, err := v.service(ctx)
	if err != nil {
		return "", err
	}

	req := &visionapi.BatchAnnotateImagesRequest{
		Requests: []*visionapi.AnnotateImageRequest{
			{
				Image:    &visionapi.Image{Content: base64.StdEncoding.EncodeToString(image)},
				Features: []*visionapi.Feature{{Type: featureTextDetection}},
			},
		},
	}

	resp, err := svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("vision text detection failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return "", nil
	}
	r := resp.Responses[0]
	if r.Error != nil && r.Error.Message != "" {
		return "", fmt.Errorf("vision text detection failed: %s (code %d)", r.Error.Message, r.Error.Code)
	}
	if len(r.TextAnnotations) == 0 {
		return "", nil
	}

	text := r.TextAnnotations[0].Description
	slog.Debug("Detected text", "provider", "vision", "length", len(text))
	return text, nil
}

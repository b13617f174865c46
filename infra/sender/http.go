package sender

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kilianp07/statrelay/core/logger"
	"github.com/kilianp07/statrelay/core/model"
)

// HTTPSender delivers batches and annotations to the metrics service JSON
// API. Failed sends are reported to the caller; the dispatcher decides what
// to do with them (it drops the batch).
type HTTPSender struct {
	base   string
	token  string
	client *http.Client
	log    logger.Logger
}

// seriesBody is the wire shape of a batch send.
type seriesBody struct {
	Gauges   []model.Payload `json:"gauges"`
	Counters []model.Payload `json:"counters"`
}

// NewHTTPSender creates a sender for the given API endpoint. The token is
// passed as a bearer credential when non-empty.
func NewHTTPSender(base, token string, log logger.Logger) *HTTPSender {
	return &HTTPSender{
		base:   strings.TrimSuffix(base, "/"),
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// SendBatch posts the grouped payloads as a single series request.
func (s *HTTPSender) SendBatch(batch model.Batch) error {
	body := seriesBody{
		Gauges:   batch[model.KindGauge],
		Counters: batch[model.KindCounter],
	}
	var out struct{}
	return s.do(http.MethodPost, "/api/v1/series", body, &out)
}

// CreateAnnotation opens an annotation and returns the id issued by the
// service.
func (s *HTTPSender) CreateAnnotation(a model.Annotation) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := s.do(http.MethodPost, "/api/v1/annotations", a, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("annotation response carried no id")
	}
	return out.ID, nil
}

// UpdateAnnotation amends an existing annotation, typically with its end
// time.
func (s *HTTPSender) UpdateAnnotation(id string, a model.Annotation) error {
	var out struct{}
	return s.do(http.MethodPut, "/api/v1/annotations/"+id, a, &out)
}

func (s *HTTPSender) do(method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	req, err := http.NewRequest(method, s.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %s", method, path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

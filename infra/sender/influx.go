package sender

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/statrelay/core/model"
	coresender "github.com/kilianp07/statrelay/core/sender"
	"github.com/kilianp07/statrelay/infra/logger"
)

// InfluxSender writes batches to an InfluxDB instance using the official
// client. Annotations are stored as points in a dedicated measurement; since
// InfluxDB issues no identifiers, the sender mints one per annotation.
type InfluxSender struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSender creates a sender configured for the given InfluxDB
// endpoint.
func NewInfluxSender(url, token, org, bucket string) *InfluxSender {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSender{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sender"),
	}
}

// NewInfluxSenderWithFallback tries to ping the InfluxDB instance and
// returns a NopSender if the health check fails.
func NewInfluxSenderWithFallback(url, token, org, bucket string) coresender.Sender {
	s := NewInfluxSender(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := s.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			s.log.Errorf("influx health check error: %v", err)
		} else {
			s.log.Errorf("influx health status: %s", health.Status)
		}
		s.client.Close()
		return coresender.NopSender{}
	}
	return s
}

// SendBatch writes one point per payload, one measurement per kind.
func (s *InfluxSender) SendBatch(batch model.Batch) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for kind, payloads := range batch {
		for _, p := range payloads {
			pt := write.NewPointWithMeasurement(kind.String()).
				AddTag("host", p.Host).
				AddTag("name", p.Name).
				AddField("value", p.Value).
				SetTime(time.Unix(p.Time, 0))
			if err := s.writeAPI.WritePoint(ctx, pt); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateAnnotation stores the annotation start point under a locally minted
// id.
func (s *InfluxSender) CreateAnnotation(a model.Annotation) (string, error) {
	id := uuid.NewString()
	if err := s.writeAnnotation(id, a, "start"); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateAnnotation stores the annotation end point under the id returned by
// CreateAnnotation.
func (s *InfluxSender) UpdateAnnotation(id string, a model.Annotation) error {
	return s.writeAnnotation(id, a, "end")
}

func (s *InfluxSender) writeAnnotation(id string, a model.Annotation, phase string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ts := a.Start
	if phase == "end" && a.End != 0 {
		ts = a.End
	}
	pt := write.NewPointWithMeasurement("annotation").
		AddTag("host", a.Host).
		AddTag("name", a.Name).
		AddTag("id", id).
		AddTag("phase", phase).
		AddField("description", a.Description).
		SetTime(time.Unix(ts, 0))
	return s.writeAPI.WritePoint(ctx, pt)
}

// Close releases the underlying client.
func (s *InfluxSender) Close() {
	s.client.Close()
}

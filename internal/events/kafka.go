// README:
// Kafka fan-out for booking lifecycle events. Downstream consumers
// (notifications, analytics) subscribe to the booking events topic;
// tracking alerts from the simulator share the same topic keyed by
// booking so per-booking ordering holds.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"washride/internal/modules/booking"
	"washride/internal/types"
)

const (
	kindStatusChange        = "status_change"
	kindTrackingUnavailable = "tracking_unavailable"
	kindTrackingRestored    = "tracking_restored"
)

// envelope wraps every event with its kind so consumers can dispatch
// without probing fields.
type envelope struct {
	Kind     string                `json:"kind"`
	At       time.Time             `json:"at"`
	Status   *booking.StatusChange `json:"status,omitempty"`
	Tracking *trackingAlert        `json:"tracking,omitempty"`
}

type trackingAlert struct {
	BookingID types.ID `json:"booking_id"`
	DriverID  types.ID `json:"driver_id"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
	log    *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *slog.Logger) *KafkaPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
		log: log,
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) PublishStatusChange(ctx context.Context, e booking.StatusChange) error {
	return p.publish(ctx, e.BookingID, envelope{
		Kind:   kindStatusChange,
		At:     e.At,
		Status: &e,
	})
}

// TrackingUnavailable is raised by the position simulator when a
// driver on a job cannot be routed anymore.
func (p *KafkaPublisher) TrackingUnavailable(ctx context.Context, driverID, bookingID types.ID) {
	err := p.publish(ctx, bookingID, envelope{
		Kind:     kindTrackingUnavailable,
		At:       time.Now().UTC(),
		Tracking: &trackingAlert{BookingID: bookingID, DriverID: driverID},
	})
	if err != nil {
		p.log.Warn("publish tracking alert", "booking_id", bookingID, "err", err)
	}
}

// TrackingRestored clears a previously raised tracking alert once the
// driver can be routed again.
func (p *KafkaPublisher) TrackingRestored(ctx context.Context, driverID, bookingID types.ID) {
	err := p.publish(ctx, bookingID, envelope{
		Kind:     kindTrackingRestored,
		At:       time.Now().UTC(),
		Tracking: &trackingAlert{BookingID: bookingID, DriverID: driverID},
	})
	if err != nil {
		p.log.Warn("publish tracking restore", "booking_id", bookingID, "err", err)
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, key types.ID, ev envelope) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

package events

import (
	"context"
	"time"

	"vidly/internal/model"
	"vidly/internal/worker"

	"github.com/sirupsen/logrus"
)

// Routing keys
const (
	KeyRentalCheckedOut = "rental.checked_out"
	KeyRentalReturned   = "rental.returned"
)

const publishTimeout = 5 * time.Second

// RentalEvent 是 rental.* 事件的內容
type RentalEvent struct {
	Rental     model.Rental `json:"rental"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// Notifier 由 handler 在交易成功後呼叫；不回傳錯誤，發送失敗只記 log
type Notifier interface {
	RentalCheckedOut(r model.Rental)
	RentalReturned(r model.Rental)
}

// Dispatcher 把事件交給 worker pool 非同步送出；佇列滿或已停止時丟棄並記 log，不會卡住呼叫端
type Dispatcher struct {
	pub  Publisher
	pool worker.Pool
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewDispatcher(pub Publisher, pool worker.Pool, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{pub: pub, pool: pool, log: log, now: time.Now}
}

func (d *Dispatcher) RentalCheckedOut(r model.Rental) {
	d.dispatch(KeyRentalCheckedOut, r)
}

func (d *Dispatcher) RentalReturned(r model.Rental) {
	d.dispatch(KeyRentalReturned, r)
}

func (d *Dispatcher) dispatch(key string, r model.Rental) {
	ev := RentalEvent{Rental: r, OccurredAt: d.now().UTC()}
	log := d.log.WithFields(logrus.Fields{"event": key, "rental_id": r.ID})
	err := d.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := d.pub.PublishJSON(ctx, key, ev); err != nil {
			log.WithError(err).Warn("publish event failed")
			return
		}
		log.Debug("event published")
	})
	if err != nil {
		log.WithError(err).Warn("event dropped")
	}
}

// Package tele sends optional panel telemetry.
//
// Contract:
// - Init fails only with invalid config, network issues ignored
// - public API calls block at most for disk write,
//   messages are delivered in background from persistent queue
// - telemetry is delivered at least once, state messages may be lost
package tele

import (
	"context"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/printpanel/helpers"
	"github.com/temoto/printpanel/log2"
	"github.com/temoto/spq"
)

const logMsgDisabled = "tele disabled"

type Config struct {
	Enabled        bool   `hcl:"enable"`
	LogDebug       bool   `hcl:"log_debug"`
	PanelId        int    `hcl:"panel_id"`
	PersistPath    string `hcl:"persist_path"`
	MqttBroker     string `hcl:"mqtt_broker"`
	MqttPassword   string `hcl:"mqtt_password"`
	KeepaliveSec   int    `hcl:"keepalive_sec"`
	PingTimeoutSec int    `hcl:"ping_timeout_sec"`
	StorePath      string `hcl:"store_path"`
	BuildVersion   string `hcl:"-"`
}

// Teler is panel side telemetry client.
type Teler interface {
	Init(context.Context, *log2.Log, Config) error
	Close()
	State(State)
	Error(error)
	Page(id uint8, name string)
	Report(*Telemetry_Settings) error
	Stat() *Stat
}

type tele struct { //nolint:maligned
	config    Config
	log       *log2.Log
	transport Transporter
	q         *spq.Queue
	alive     *alive.Alive
	retry     helpers.Backoff
	panelId   int32
	stat      Stat
	state     State
}

func New() Teler { return &tele{} }

func NewWithTransporter(trans Transporter) Teler { return &tele{transport: trans} }

func (self *tele) Init(ctx context.Context, log *log2.Log, config Config) error {
	self.config = config
	self.log = log
	if self.config.LogDebug {
		self.log.SetLevel(log2.LDebug)
	}
	self.panelId = int32(self.config.PanelId)
	self.alive = alive.NewAlive()
	self.retry = helpers.Backoff{Min: time.Second, Max: 5 * time.Minute, K: 2}
	if !self.config.Enabled {
		self.log.Infof(logMsgDisabled)
		return nil
	}
	if self.config.PersistPath == "" {
		return errors.NotValidf("tele enabled but persist_path=empty")
	}

	// test code sets .transport
	if self.transport == nil {
		self.transport = &transportMqtt{}
	}
	if err := self.transport.Init(ctx, log, config); err != nil {
		return errors.Annotate(err, "tele transport")
	}
	var err error
	self.q, err = spq.Open(self.config.PersistPath)
	if err != nil {
		return errors.Annotate(err, "tele queue")
	}

	self.alive.Add(1)
	go self.qworker()
	self.State(State_Boot)
	return nil
}

func (self *tele) Close() {
	if self.alive == nil {
		return
	}
	self.alive.Stop()
	if self.q != nil {
		if err := self.q.Close(); err != nil {
			self.log.Errorf("tele queue close err=%v", err)
		}
	}
	self.alive.Wait()
	if self.transport != nil {
		self.transport.Close()
	}
}

func (self *tele) Stat() *Stat { return &self.stat }

func (self *tele) State(s State) {
	if !self.config.Enabled || self.state == s {
		return
	}
	self.state = s
	self.transport.SendState([]byte{byte(s)})
}

func (self *tele) Error(e error) {
	if !self.config.Enabled {
		return
	}
	self.log.Debugf("tele.Error: %s", errors.ErrorStack(e))
	tm := &Telemetry{Error: &Telemetry_Error{Message: e.Error()}}
	if err := self.qpushTelemetry(tm); err != nil {
		// plain log, Errorf would loop back here through error hook
		self.log.Infof("CRITICAL qpushTelemetry telemetry_error=%#v err=%v", tm.Error, err)
	}
}

func (self *tele) Page(id uint8, name string) {
	self.stat.PageChanges.Inc()
	if !self.config.Enabled {
		return
	}
	tm := &Telemetry{Page: &Telemetry_Page{Id: uint32(id), Name: name}}
	if err := self.qpushTelemetry(tm); err != nil {
		self.log.Errorf("CRITICAL qpushTelemetry page=%s err=%v", name, err)
	}
}

func (self *tele) Report(settings *Telemetry_Settings) error {
	if !self.config.Enabled {
		self.log.Debugf(logMsgDisabled)
		return nil
	}
	err := self.qpushTelemetry(&Telemetry{Settings: settings})
	return errors.Annotate(err, "tele report")
}

// denote value type in persistent queue bytes form
const (
	qTelemetry byte = 2
)

func (self *tele) qworker() {
	defer self.alive.Done()
	for {
		box, err := self.q.Peek()
		switch err {
		case nil:
			b := box.Bytes()
			del, err := self.qhandle(b)
			if err != nil {
				self.log.Errorf("tele qhandle b=%x err=%v", b, err)
			}
			if del {
				self.retry.Reset()
				if err = self.q.Delete(box); err != nil {
					self.log.Errorf("tele qhandle Delete b=%x err=%v", b, err)
				}
				continue
			}
			if err = self.q.DeletePush(box); err != nil {
				self.log.Errorf("tele qhandle DeletePush b=%x err=%v", b, err)
			}
			if !self.retry.Wait(self.alive.StopChan()) {
				return
			}

		case spq.ErrClosed:
			if self.alive.IsRunning() {
				self.log.Errorf("CRITICAL tele spq closed unexpectedly")
			}
			return

		default:
			self.log.Errorf("CRITICAL tele spq err=%v", err)
			if !self.retry.Wait(self.alive.StopChan()) {
				return
			}
		}
	}
}

// qhandle returns true when the item is done with, delivered or undeliverable.
func (self *tele) qhandle(b []byte) (bool, error) {
	if len(b) == 0 {
		return true, errors.NotValidf("tele spq peek=empty")
	}
	switch b[0] {
	case qTelemetry:
		var tm Telemetry
		if err := proto.Unmarshal(b[1:], &tm); err != nil {
			return true, err
		}
		return self.qsendTelemetry(&tm), nil

	default:
		return true, errors.NotValidf("tele queue kind=%d", b[0])
	}
}

func (self *tele) qpushTelemetry(tm *Telemetry) error {
	if tm.PanelId == 0 {
		tm.PanelId = self.panelId
	}
	if tm.Time == 0 {
		tm.Time = time.Now().UnixNano()
	}
	if tm.BuildVersion == "" {
		tm.BuildVersion = self.config.BuildVersion
	}
	tm.Stat = self.stat.snapshot()
	return self.qpushTagProto(qTelemetry, tm)
}

func (self *tele) qpushTagProto(tag byte, pb proto.Message) error {
	buf := proto.NewBuffer(make([]byte, 0, 256))
	if err := buf.EncodeVarint(uint64(tag)); err != nil {
		return err
	}
	if err := buf.Marshal(pb); err != nil {
		return err
	}
	return self.q.Push(buf.Bytes())
}

func (self *tele) qsendTelemetry(tm *Telemetry) bool {
	payload, err := proto.Marshal(tm)
	if err != nil {
		self.log.Errorf("CRITICAL telemetry Marshal tm=%#v err=%v", tm, err)
		return true // retry will not help
	}
	return self.transport.SendTelemetry(payload)
}

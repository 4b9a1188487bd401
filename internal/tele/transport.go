package tele

import (
	"context"
	"fmt"
	"net/url"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/temoto/printpanel/helpers"
	"github.com/temoto/printpanel/log2"
)

// Tele transport contract:
// - Init fails only with invalid config, ignores network errors
// - Send* return false when message should be retried later
// - application may start without network available
type Transporter interface {
	Init(ctx context.Context, log *log2.Log, config Config) error
	SendState(payload []byte) bool
	SendTelemetry(payload []byte) bool
	Close()
}

const (
	defaultKeepalive    = 60 * time.Second
	defaultPingTimeout  = 30 * time.Second
	defaultPublishWait  = 10 * time.Second
	defaultMqttStoreDir = "/var/lib/printpanel/mqtt"
)

func TopicConnect(panelId int) string   { return fmt.Sprintf("panel%d/c", panelId) }
func TopicState(panelId int) string     { return fmt.Sprintf("panel%d/w/1s", panelId) }
func TopicTelemetry(panelId int) string { return fmt.Sprintf("panel%d/w/1t", panelId) }

type transportMqtt struct {
	log  *log2.Log
	m    mqtt.Client
	mopt *mqtt.ClientOptions

	topicConnect   string
	topicState     string
	topicTelemetry string
}

func (self *transportMqtt) Init(ctx context.Context, log *log2.Log, config Config) error {
	self.log = log
	mqtt.ERROR = log
	mqtt.CRITICAL = log
	if config.LogDebug {
		mqtt.DEBUG = log
	}
	if _, err := url.ParseRequestURI(config.MqttBroker); err != nil {
		return errors.Annotatef(err, "tele mqtt_broker=%s", config.MqttBroker)
	}

	clientId := fmt.Sprintf("panel%d", config.PanelId)
	self.topicConnect = TopicConnect(config.PanelId)
	self.topicState = TopicState(config.PanelId)
	self.topicTelemetry = TopicTelemetry(config.PanelId)
	keepAlive := helpers.IntSecondDefault(config.KeepaliveSec, defaultKeepalive)
	pingTimeout := helpers.IntSecondDefault(config.PingTimeoutSec, defaultPingTimeout)
	storePath := config.StorePath
	if storePath == "" {
		storePath = defaultMqttStoreDir
	}
	self.mopt = mqtt.NewClientOptions().
		AddBroker(config.MqttBroker).
		SetBinaryWill(self.topicConnect, []byte{byte(State_Disconnected)}, 1, true).
		SetCleanSession(false).
		SetClientID(clientId).
		SetUsername(clientId).
		SetPassword(config.MqttPassword).
		SetKeepAlive(keepAlive).
		SetPingTimeout(pingTimeout).
		SetStore(mqtt.NewFileStore(storePath)).
		SetAutoReconnect(true).
		SetOnConnectHandler(self.onConnectHandler).
		SetConnectionLostHandler(self.connectLostHandler)
	self.m = mqtt.NewClient(self.mopt)
	// network may be absent at boot, connect in background
	go func() {
		if token := self.m.Connect(); token.Wait() && token.Error() != nil {
			self.log.Errorf("tele mqtt connect err=%v", token.Error())
		}
	}()
	return nil
}

func (self *transportMqtt) Close() {
	if self.m != nil {
		self.m.Disconnect(250)
	}
}

func (self *transportMqtt) SendState(payload []byte) bool {
	return self.publish(self.topicState, false, payload)
}

func (self *transportMqtt) SendTelemetry(payload []byte) bool {
	return self.publish(self.topicTelemetry, false, payload)
}

func (self *transportMqtt) publish(topic string, retained bool, payload []byte) bool {
	if !self.m.IsConnected() {
		return false
	}
	token := self.m.Publish(topic, 1, retained, payload)
	if !token.WaitTimeout(defaultPublishWait) {
		self.log.Debugf("tele mqtt publish topic=%s timeout", topic)
		return false
	}
	if err := token.Error(); err != nil {
		self.log.Debugf("tele mqtt publish topic=%s err=%v", topic, err)
		return false
	}
	return true
}

func (self *transportMqtt) connectLostHandler(c mqtt.Client, err error) {
	self.log.Infof("tele mqtt disconnect err=%v", err)
}

func (self *transportMqtt) onConnectHandler(c mqtt.Client) {
	self.log.Infof("tele mqtt connect")
	c.Publish(self.topicConnect, 1, true, []byte{byte(State_Nominal)})
}

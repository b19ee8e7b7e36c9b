package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/labeltx/api"
	"github.com/matt-g-everett/labeltx/stream"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type app struct {
	Config    stream.Config
	Client    mqtt.Client
	Registry  *stream.MqttRegistry
	Scheduler *stream.Scheduler
	Api       *api.Api
	log       *zap.Logger
}

func newApp(log *zap.Logger) *app {
	a := new(app)
	a.Config = stream.DefaultConfig()
	a.log = log
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	a.log.Info("connected", zap.String("broker", a.Config.Mqtt.URL))
	if err := a.Registry.Subscribe(client); err != nil {
		a.log.Error("subscribe", zap.Error(err))
	}
}

func (a *app) handleConnectionLost(client mqtt.Client, err error) {
	a.log.Warn("connection lost", zap.Error(err))
}

func (a *app) readConfig(configPath string) error {
	f, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&a.Config); err != nil {
		return err
	}
	return a.Config.Validate()
}

func (a *app) setup() error {
	newAnimation, err := a.Config.AnimationFactory()
	if err != nil {
		return err
	}
	format, err := a.Config.Format()
	if err != nil {
		return err
	}

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(a.handleOnConnect).
		SetConnectionLostHandler(a.handleConnectionLost)
	a.Client = mqtt.NewClient(options)

	a.Registry = stream.NewMqttRegistry(a.Config, a.Client, a.log.Named("registry"))
	a.Scheduler = stream.NewScheduler(a.Registry, newAnimation, format,
		a.Config.Animation.Period, a.log.Named("scheduler"))
	a.Registry.OnDepart(a.Scheduler.Depart)
	a.Api = api.NewApi(a.Scheduler, format, a.log.Named("api"))
	return nil
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)

	go func() {
		if err := a.Api.Serve(ctx, a.Config.API.Listen); err != nil {
			a.log.Error("api", zap.Error(err))
		}
	}()

	a.Scheduler.Run(ctx)
	a.Scheduler.Stop()
	return nil
}

func main() {
	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	var err error
	var l *zap.Logger
	if *verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	zap.ReplaceGlobals(l)
	defer l.Sync() //nolint:errcheck

	mqtt.ERROR = zap.NewStdLog(l.Named("mqtt"))

	// Read the config
	a := newApp(l)
	if err := a.readConfig(*configPath); err != nil {
		l.Fatal("read config", zap.String("path", *configPath), zap.Error(err))
	}
	l.Info("config",
		zap.String("broker", a.Config.Mqtt.URL),
		zap.String("style", a.Config.Animation.Style),
		zap.String("gradient", a.Config.Animation.Gradient),
		zap.Duration("period", a.Config.Animation.Period))

	if err := a.setup(); err != nil {
		l.Fatal("setup", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		l.Fatal("run", zap.Error(err))
	}
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

var (
	version     = flag.Bool("version", false, "Print version info")
	help        = flag.Bool("help", false, "Print help")
	logLevel    = flag.Int("log", 3, "Log level (0=NONE, 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG)")
	truckID     = flag.Int("truck-id", 0, "Truck identifier")
	broker      = flag.String("broker", "localhost", "MQTT broker address ('mock' to run disconnected)")
	brokerPort  = flag.Int("broker-port", 1883, "MQTT broker port")
	redisServer = flag.String("redis-server", "", "Redis server address for the state mirror (empty to disable)")
	redisPort   = flag.Int("redis-port", 6379, "Redis server port")
	routePath   = flag.String("route", "", "Route waypoint file")
	configPath  = flag.String("config", "", "YAML configuration file")
	logDir      = flag.String("log-dir", ".", "Directory for the data log files")
)

const (
	ProjectName    = "truck-service"
	ProjectVersion = "1.0.0"
)

func printVersion() {
	fmt.Printf("%s v%s\n", ProjectName, ProjectVersion)
}

func printHelp() {
	printVersion()
	flag.PrintDefaults()
}

func main() {
	// .env is optional, flags always win over it
	_ = godotenv.Load()

	flag.Parse()

	if *version {
		printVersion()
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *logLevel < 0 || *logLevel > 4 {
		log.Fatalf("invalid log level %d", *logLevel)
	}

	brokerAddr := *broker
	if !flagWasSet("broker") {
		if env := os.Getenv("MQTT_BROKER"); env != "" {
			brokerAddr = env
		}
	}
	redisAddr := *redisServer
	if !flagWasSet("redis-server") {
		if env := os.Getenv("REDIS_ADDR"); env != "" {
			redisAddr = env
		}
	}
	route := *routePath
	if !flagWasSet("route") {
		if env := os.Getenv("ROUTE_PATH"); env != "" {
			route = env
		}
	}

	opts := &Options{
		LogLevel:        LogLevel(*logLevel),
		TruckID:         *truckID,
		BrokerAddr:      brokerAddr,
		BrokerPort:      *brokerPort,
		RedisServerAddr: redisAddr,
		RedisServerPort: uint16(*redisPort),
		RoutePath:       route,
		ConfigPath:      *configPath,
		LogDir:          *logDir,
	}

	app, err := NewTruckApp(opts)
	if err != nil {
		log.Fatalf("failed to create truck app: %v", err)
	}

	app.Start()

	// Handle SIGINT and SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	app.Destroy()
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

const (
	environmentVariablePort               = "PORT"
	environmentVariableDatabaseURL        = "DATABASE_URL"
	environmentVariableSQLiteFile         = "SQLITE_FILE"
	environmentVariableMongoURL           = "MONGO_URL"
	environmentVariableFirestoreProjectID = "FIRESTORE_PROJECT_ID"
	environmentVariableRedisAddr          = "REDIS_ADDR"
	environmentVariableNatsURL            = "NATS_URL"
	environmentVariableOtelEndpoint       = "OTEL_ENDPOINT"
	environmentVariableQueryPeriodSec     = "QUERY_PERIOD_SEC"
	environmentVariableOutboxSize         = "OUTBOX_SIZE"
	environmentVariableDebug              = "DEBUG"
	environmentVariableLogConsole         = "LOG_CONSOLE"
)

// mainFlags are the configuration options which can be easily configured at run startup for different environments.
type mainFlags struct {
	port               int
	databaseURL        string
	sqliteFile         string
	mongoURL           string
	firestoreProjectID string
	redisAddr          string
	natsURL            string
	otelEndpoint       string
	queryPeriodSec     int
	outboxSize         int
	debug              bool
	logConsole         bool
}

const (
	defaultPort           = 8080
	defaultQueryPeriodSec = 5
	defaultOutboxSize     = 1024
)

// usage prints how to run the server to the flagset's output.
func usage(fs *flag.FlagSet) {
	envVars := []string{
		environmentVariablePort,
		environmentVariableDatabaseURL,
		environmentVariableSQLiteFile,
		environmentVariableMongoURL,
		environmentVariableFirestoreProjectID,
		environmentVariableRedisAddr,
		environmentVariableNatsURL,
		environmentVariableOtelEndpoint,
		environmentVariableQueryPeriodSec,
		environmentVariableOutboxSize,
		environmentVariableDebug,
		environmentVariableLogConsole,
	}
	fmt.Fprintf(fs.Output(), "Runs the tennis game server\n")
	fmt.Fprintf(fs.Output(), "Reads environment variables when possible: [%s]\n", strings.Join(envVars, ","))
	fmt.Fprintf(fs.Output(), "Usage of %s:\n", fs.Name())
	fs.PrintDefaults()
}

// newFlagSet creates a flagSet that populates the specified mainFlags.
func (m *mainFlags) newFlagSet(osLookupEnvFunc func(string) (string, bool)) *flag.FlagSet {
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	fs.Usage = func() {
		usage(fs) // [lazy evaluation]
	}
	envValue := func(key string) string {
		if envValue, ok := osLookupEnvFunc(key); ok {
			return envValue
		}
		return ""
	}
	envValueInt := func(key string, defaultValue int) int {
		v1 := envValue(key)
		v2, err := strconv.Atoi(v1)
		if err != nil {
			return defaultValue
		}
		return v2
	}
	envPresent := func(key string) bool {
		_, ok := osLookupEnvFunc(key)
		return ok
	}
	fs.IntVar(&m.port, "port", envValueInt(environmentVariablePort, defaultPort), "The TCP port for server http requests.")
	fs.StringVar(&m.databaseURL, "data-source", envValue(environmentVariableDatabaseURL), "The data source to the PostgreSQL database (connection URI).  Used before other databases.")
	fs.StringVar(&m.sqliteFile, "sqlite-file", envValue(environmentVariableSQLiteFile), "The path of the SQLite database file.  Created if it does not exist.")
	fs.StringVar(&m.mongoURL, "mongo-url", envValue(environmentVariableMongoURL), "The connection URI of the MongoDB database.")
	fs.StringVar(&m.firestoreProjectID, "firestore-project-id", envValue(environmentVariableFirestoreProjectID), "The Google Cloud project of the Firestore database.  Games are kept in memory if no database is specified.")
	fs.StringVar(&m.redisAddr, "redis-addr", envValue(environmentVariableRedisAddr), "The host:port of the redis server to publish and route game events with.")
	fs.StringVar(&m.natsURL, "nats-url", envValue(environmentVariableNatsURL), "The url of the nats server to publish game events to.")
	fs.StringVar(&m.otelEndpoint, "otel-endpoint", envValue(environmentVariableOtelEndpoint), "The url of the OTLP/HTTP trace collector.  Traces are not exported if empty.")
	fs.IntVar(&m.queryPeriodSec, "query-period-sec", envValueInt(environmentVariableQueryPeriodSec, defaultQueryPeriodSec), "The number of seconds a single database call can take.")
	fs.IntVar(&m.outboxSize, "outbox-size", envValueInt(environmentVariableOutboxSize, defaultOutboxSize), "The number of game events that can wait to be published before events are dropped.")
	fs.BoolVar(&m.debug, "debug", envPresent(environmentVariableDebug), "Logs each game request, point, and routed event.")
	fs.BoolVar(&m.logConsole, "log-console", envPresent(environmentVariableLogConsole), "Writes human-readable log lines instead of json.")
	return fs
}

// newMainFlags creates a new, populated mainFlags structure.
// Fields are populated from command line arguments.
// If fields are not specified on the command line, environment variable values are used before defaulting to other defaults.
func newMainFlags(osArgs []string, osLookupEnvFunc func(string) (string, bool)) mainFlags {
	if len(osArgs) == 0 {
		osArgs = []string{""}
	}
	programArgs := osArgs[1:]
	var m mainFlags
	fs := m.newFlagSet(osLookupEnvFunc)
	fs.Parse(programArgs)
	return m
}

package sql

import (
	"fmt"
	"strings"
)

type (
	// Query is a message that is sent to the database.
	Query interface {
		// Cmd is the injection-safe message to send to the database.
		Cmd() string
		// Args are the user-provided properties of the message which should be escaped.
		Args() []interface{}
	}

	// QueryFunction is a Query that reads data from a stored function.
	QueryFunction struct {
		name      string
		cols      []string
		arguments []interface{}
	}

	// ExecFunction is a Query that changes exactly one row with a stored function.
	ExecFunction struct {
		name      string
		arguments []interface{}
	}

	// Statement is a parameterized SQL Query, used by databases without stored functions.
	Statement struct {
		cmd       string
		arguments []interface{}
	}

	// RawQuery is a Query that changes data and has no arguments.
	RawQuery string
)

// NewQueryFunction creates a Query to call a query function.
func NewQueryFunction(name string, cols []string, args ...interface{}) QueryFunction {
	q := QueryFunction{
		name:      name,
		cols:      cols,
		arguments: args,
	}
	return q
}

// NewExecFunction creates a Query to call an exec function.
func NewExecFunction(name string, args ...interface{}) ExecFunction {
	e := ExecFunction{
		name:      name,
		arguments: args,
	}
	return e
}

// NewStatement creates a Query of the sql with placeholders for the args.
func NewStatement(cmd string, args ...interface{}) Statement {
	s := Statement{
		cmd:       cmd,
		arguments: args,
	}
	return s
}

// Cmd returns a postgres SQL string to select the columns from the function with arguments.
func (q QueryFunction) Cmd() string {
	return fmt.Sprintf("SELECT %s FROM %s(%s)", strings.Join(q.cols, ", "), q.name, argIndexes(len(q.arguments)))
}

// Cmd returns a postgres SQL string to execute the function with arguments.
func (e ExecFunction) Cmd() string {
	return fmt.Sprintf("SELECT %s(%s)", e.name, argIndexes(len(e.arguments)))
}

// Cmd returns the SQL of the statement.
func (s Statement) Cmd() string {
	return s.cmd
}

// Cmd returns the raw SQL query.
func (r RawQuery) Cmd() string {
	return string(r)
}

// Args returns the arguments for the query function.
func (q QueryFunction) Args() []interface{} {
	return q.arguments
}

// Args returns the arguments for the exec function.
func (e ExecFunction) Args() []interface{} {
	return e.arguments
}

// Args returns the arguments for the statement placeholders.
func (s Statement) Args() []interface{} {
	return s.arguments
}

// Args returns nil for the raw SQL query.
func (RawQuery) Args() []interface{} {
	return nil
}

// argIndexes creates the comma-separated "$1, $2" placeholders for n arguments.
func argIndexes(n int) string {
	indexes := make([]string, n)
	for i := range indexes {
		indexes[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(indexes, ", ")
}

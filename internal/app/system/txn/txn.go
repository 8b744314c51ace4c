// Package txn runs multi-document writes inside a MongoDB transaction when
// the deployment supports them, falling back to sequential writes on
// standalone servers. Transactions require a replica set or mongos; local
// development often runs against a standalone mongod.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Run executes fn transactionally when possible. A nil client always runs fn
// directly. When the server rejects sessions or transactions, fn is re-run
// outside a transaction; the aborted attempt leaves no writes behind.
func Run(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	if client == nil {
		return fn(ctx)
	}

	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fn(ctx)
	}
	return err
}

// Transaction-incompatibility server error codes.
const (
	codeIllegalOperation        = 20
	codeCommandNotSupported     = 51
	codeOperationNotSupportedIn = 263
)

// IsNotSupported reports whether err means the server cannot run
// transactions at all, as opposed to a transaction that failed.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case codeIllegalOperation, codeCommandNotSupported, codeOperationNotSupportedIn:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }
	switch {
	case has("transaction") && has("replica set"):
		return true
	case has("session") && has("not supported"):
		return true
	case has("transaction") && has("session"):
		return true
	case has("transaction") && has("illegal operation"):
		return true
	}
	return false
}

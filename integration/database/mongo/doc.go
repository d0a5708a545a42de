// Package mongo connects to MongoDB and stores client session records in a
// collection keyed by _id.
//
// New and NewWithDatabase retry the initial connect and ping, which covers
// Atlas cold starts and short network hiccups during process start.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "sstu")
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	mgr, err := session.Open(ctx, mongo.NewSessionStore(db, mongo.DefaultSessionCollection))
//
// # Configuration
//
//	MONGODB_URL                 (required)
//	MONGODB_CONNECT_TIMEOUT     (default: 10s)
//	MONGODB_MAX_POOL_SIZE       (default: 100)
//	MONGODB_MIN_POOL_SIZE       (default: 1)
//	MONGODB_MAX_CONN_IDLE_TIME  (default: 300s)
//	MONGODB_RETRY_WRITES        (default: true)
//	MONGODB_RETRY_READS         (default: true)
//	MONGODB_RETRY_ATTEMPTS      (default: 3)
//	MONGODB_RETRY_INTERVAL      (default: 5s)
//	MONGODB_DATABASE            (default: sstu)
//
// # Errors
//
//	ErrEmptyConnectionURL     - no URL configured
//	ErrFailedToConnectToMongo - all retry attempts exhausted
//	ErrHealthcheckFailed      - probe ping failed
//	ErrSessionStore           - session read or write failed
package mongo

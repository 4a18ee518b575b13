// Package provider opens database connections for a dbconnect.ConnectionConfig.
//
// The Provider resolves a driver adapter from the URL's subprotocol (mysql, mariadb,
// postgresql), translates the JDBC-style properties into the driver's native
// configuration, opens a *sqlx.DB and verifies it with a round trip before returning it.
//
// Key features:
//   - Classified failures (*dbconnect.ConnectError with network, auth, database, config, driver kinds)
//   - Exactly one error log record per failed attempt, with the underlying cause
//   - Optional metrics collection, tracing spans per attempt and context-aware logging
//   - Custom driver registration for further subprotocols
//
// Usage examples:
//
//	p, _ := provider.NewProvider(cfg)
//	db, err := p.Open(ctx)
//	if err != nil {
//		switch dbconnect.KindOf(err) {
//		case dbconnect.KindNetwork:
//			// transient, may be worth another try later
//		case dbconnect.KindAuth:
//			// fix credentials
//		}
//		return err
//	}
//	defer db.Close()
//
//	// Absent-on-failure form
//	if db := p.GetConnection(ctx); db != nil {
//		defer db.Close()
//	}
package provider

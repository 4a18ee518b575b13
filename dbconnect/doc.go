// Package dbconnect provides the core types for opening relational database connections
// from a JDBC-style connection URL and a username/password pair.
//
// This package defines the immutable connection configuration, the parsed connection
// target and the classified connection error shared by the provider implementation
// and the configuration loader.
//
// Key types:
//   - ConnectionConfig: URL, username and password, fixed at construction
//   - Target: the parsed JDBC-style URL (subprotocol, host, port, database, properties)
//   - ConnectError: a failed connection attempt, classified by Kind
//
// Common usage pattern:
//
//	cfg, err := dbconnect.NewConnectionConfig(
//		"jdbc:mysql://localhost:3306/inventory?serverTimezone=UTC&useSSL=false",
//		username,
//		password,
//	)
//	if err != nil {
//		// handle error
//	}
//
//	p, _ := provider.NewProvider(cfg)
//	db, err := p.Open(ctx)
//	if dbconnect.KindOf(err) == dbconnect.KindAuth {
//		// credentials were rejected
//	}
package dbconnect

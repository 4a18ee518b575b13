// Package config builds the connection settings for the dbconnect command from the
// environment and an optional YAML file, so credentials never live in source code.
//
// Keys and their environment variables:
//
//	url              DBCONNECT_URL              e.g. jdbc:mysql://localhost:3306/app?useSSL=false
//	username         DBCONNECT_USERNAME
//	password         DBCONNECT_PASSWORD
//	connect_timeout  DBCONNECT_CONNECT_TIMEOUT  Go duration, e.g. "5s"
//
// Environment variables override values from the file.
package config

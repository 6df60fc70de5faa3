// Package connectors holds the remote document sources. Each connector
// implements driven.Source for one service and classifies its own
// errors into domain failure kinds.
//
// The exporter currently ships a single connector, notion.
package connectors

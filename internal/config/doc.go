// Package config loads the nicctl configuration file.
//
// The file is HCL (JSON is accepted when the file name ends in .json):
//
//	schema_version = "1.0"
//	log_level      = "info"
//	netns          = "lab"
//
//	dns {
//	  backend = "resolved"
//	}
//
//	restart {
//	  wait          = "link"
//	  settle        = "4s"
//	  poll_interval = "250ms"
//	  probe_gateway = true
//	}
//
//	metrics {
//	  textfile = "/var/lib/node_exporter/textfile/nicctl.prom"
//	}
//
// Every setting is optional. Durations use time.ParseDuration syntax.
package config

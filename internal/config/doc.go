// Package config provides configuration parsing for tether.
//
// The configuration is stored in tether.json (or tether.yaml) next to the
// program using the runtime. This package handles loading, saving, and
// validating it.
//
// # Configuration File Structure
//
//	{
//	  "runtime": {
//	    "async": true,
//	    "maxUpdateCount": 100,
//	    "devMode": true,
//	    "silent": false,
//	    "tick": "microtask"
//	  },
//	  "patch": {
//	    "maxDepth": 1000
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "tether"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "tether"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Max updates per flush:", cfg.Runtime.MaxUpdateCount)
package config

// Package config reads debug launch configurations: which manifest to run,
// which action, and the inputs a simulated install sees.
//
// A launch file is YAML or JSON:
//
//	name: Debug install
//	type: porter
//	request: launch
//	porter-file: ./porter.yaml
//	action: install
//	stopOnEntry: true
//	installInputs:
//	  parameters:
//	    username: admin
//	  credentialSet: dev
//	  outputs:
//	    ip: 10.0.0.1
package config

package testutil

// SampleManifest is a small but complete manifest used across packages.
// Line numbers (zero-based) referenced by tests:
//
//	 6 parameters:       7 username decl   9 port decl
//	12 credentials:     13 kubeconfig decl
//	16 install:         17-24 first step (output ip on 23), 25-27 second step
//	29 uninstall:       30-32 single step
const SampleManifest = `name: hello
version: 0.1.0

mixins:
  - exec

parameters:
  - name: username
    type: string
  - name: port
    type: integer

credentials:
  - name: kubeconfig
    path: /root/.kube/config

install:
  - exec:
      description: "Create user"
      command: ./create.sh
      arguments:
        - "{{ bundle.parameters.username }}"
      outputs:
        - name: ip
          regex: "ip: (.*)"
  - exec:
      description: "Report"
      command: echo "{{ bundle.outputs.ip }} {{bundle.credentials.kubeconfig}}"

uninstall:
  - exec:
      description: "Remove {{ bundle.parameters.username }}"
      command: ./remove.sh
`

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package manifest provides the typed, position-aware model of a Porter
// bundle manifest (porter.yaml). Parse turns raw YAML text into a Document
// whose every semantically significant element carries a zero-based source
// range.
//
// # Core Concepts
//
//   - Document: the root aggregate, rebuilt from scratch on every parse. It
//     holds the parameter and credential declarations, the ordered actions
//     and every `{{ ... }}` template found in scalar text.
//
//   - Action: any top-level key whose value is a sequence and which is not
//     one of the reserved keys (mixins, parameters, credentials). This is a
//     heuristic: install, upgrade, uninstall and custom actions all look
//     alike, so unknown top-level sequences are treated as actions too.
//
//   - Step: a single-key mapping inside an action ("exec: {...}",
//     "helm3: {...}"). Items of any other shape are dropped from the step
//     list without failing the parse.
//
//   - Declaration: a named entry (parameter, credential or step output)
//     with the exact range of its `name:` value.
//
//   - TemplateReference: the trimmed text between `{{` and `}}` together
//     with the range of that text and of the whole template.
//
// Only two things fail a parse: invalid YAML and a root that is not a
// mapping. Consumers treat both as "file has errors" and skip analysis.
package manifest

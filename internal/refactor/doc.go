// Package refactor computes text edits for manifest refactorings. Nothing
// here writes files; callers apply the returned edits through
// lineindex.Index.Apply.
package refactor

// Package registry provides the central "glue" for the benchmark cases.
//
// Each package under modules/ implements Module and registers one or more
// cases by name. A case knows which suite it belongs to, the title it is
// reported under, and how to prepare itself. Preparation covers everything
// that must not be timed (creating an engine, compiling a script); the Runner
// it returns performs only the measured work.
//
// During application startup the registry is populated and validated so that a
// broken registration fails before any case runs.
package registry

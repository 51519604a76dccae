// Package preflight provides readiness checks for the paths and services
// Marquee depends on.
//
// The CLI "marquee status" command runs RunAll and renders each Result. Checks
// for optional features report Passed with a "disabled" detail when the
// feature is not configured.
package preflight

// Package network drives the lifecycle of the local single-org Fabric debug
// network.
//
// The Orchestrator sequences compose commands and container scripts to
// create, stop, restart and remove the network, then deploys the workspace
// chaincode onto it. All collaborators are interfaces so the sequencing can be
// tested without Docker:
//
//   - shell.Runner runs compose commands and bundled scripts
//   - prereq.Checker probes for docker and compose
//   - reporting.Progress, reporting.Notifier and reporting.EventBus surface
//     progress, user messages and refresh events
//   - telemetry.Sink records operation durations
//   - session.Manager ends the chaincode debug session before containers stop
//   - state.Store persists the started flag and chaincode identity between runs
//
// Lifecycle operations are serialized by a single in-flight gate. Commands
// already running are never interrupted; a cancelled context is noticed
// between steps, logged once, and the sequence carries on.
package network

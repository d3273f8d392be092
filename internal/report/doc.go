// Package report publishes workload results. Every run logs its results; a
// socket.io sink is added for each `report "socketio"` block in the
// configuration.
package report

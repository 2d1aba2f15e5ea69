// Package metrics records jsb pipeline metrics with Prometheus.
//
// A [Recorder] implements the observability hook interfaces (pipeline,
// cache and HTTP) on its own registry. jsb is a short-lived CLI, so nothing
// is served over HTTP: after a command finishes, the registry is written in
// the text exposition format to a file, ready for the node_exporter textfile
// collector or a CI artifact.
//
//	rec := metrics.NewRecorder(nil)
//	rec.Register()
//	defer rec.WriteFile("jsb.prom")
package metrics

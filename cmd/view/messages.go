package main

import "github.com/rxtech-lab/argo-loglens/pkg/analyzer"

// ResultLoadedMsg carries a freshly analyzed log file.
type ResultLoadedMsg struct {
	Result *analyzer.Result
}

// LoadErrorMsg indicates that reading or analyzing the file failed.
type LoadErrorMsg struct {
	Err error
}

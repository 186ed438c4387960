package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecInfoTable is the table that describes the runs of the program.
const ExecInfoTable = "exec_info"

// ExecInfo is a property of a run.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records when and how the program was run.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// NewExecRecorder creates an ExecRecorder that writes through recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(ExecInfoTable, ExecInfo{})

	return &ExecRecorder{recorder: recorder}
}

// Start notes the start time, the command, and the working directory of the
// run.
func (e *ExecRecorder) Start() {
	e.entries = append(e.entries,
		ExecInfo{"Start Time", now()},
		ExecInfo{"Command", strings.Join(os.Args, " ")},
	)

	if wd, err := os.Getwd(); err == nil {
		e.entries = append(e.entries, ExecInfo{"Working Directory", wd})
	}
}

// End writes the run information along with the end time.
func (e *ExecRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(ExecInfoTable, entry)
	}

	e.recorder.InsertData(ExecInfoTable, ExecInfo{"End Time", now()})
	e.entries = nil

	e.recorder.Flush()
}

func now() string {
	return time.Now().Format("2006-01-02 15:04:05.000000000")
}

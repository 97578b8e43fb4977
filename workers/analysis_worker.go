package workers

import (
	"log"
	"time"

	"github.com/camden-git/emotionsysbackend/realtime"
	"github.com/camden-git/emotionsysbackend/services"
)

// AnalysisWorker periodically recomputes the wellness analysis and pushes the
// result to connected dashboard clients
type AnalysisWorker struct {
	analyzer *services.Analyzer
	hub      *realtime.Hub
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewAnalysisWorker creates a worker that runs the analyzer every interval.
// An interval of zero disables periodic analysis entirely.
func NewAnalysisWorker(analyzer *services.Analyzer, hub *realtime.Hub, interval time.Duration) *AnalysisWorker {
	return &AnalysisWorker{
		analyzer: analyzer,
		hub:      hub,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the worker loop. It returns immediately; call Stop to shut
// the loop down.
func (w *AnalysisWorker) Start() {
	if w.interval <= 0 {
		log.Println("workers: periodic analysis disabled")
		close(w.done)
		return
	}

	log.Printf("workers: periodic analysis every %s", w.interval)
	go w.run()
}

func (w *AnalysisWorker) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			result := w.analyzer.RunFullAnalysis()
			if w.hub != nil {
				w.hub.Broadcast(realtime.Event{Type: realtime.EventAnalysisCompleted, Payload: result})
			}
		case <-w.stop:
			return
		}
	}
}

// Stop terminates the worker loop and waits for it to exit
func (w *AnalysisWorker) Stop() {
	if w.interval <= 0 {
		return
	}
	close(w.stop)
	<-w.done
}

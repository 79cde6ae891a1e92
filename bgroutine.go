package main

import (
	"log"
	"sync"
	"time"
)

func startBackgroundRoutine(name string, workfn func(<-chan struct{})) func() {
	log.Printf("Starting %s routine", name)
	closechan := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		workfn(closechan)
		wg.Done()
	}()
	return sync.OnceFunc(func() {
		log.Printf("Shutting down %s routine", name)
		close(closechan)
		log.Printf("Waiting for routine %s to exit", name)
		wg.Wait()
		log.Printf("Routine %s done", name)
	})
}

// tickerRoutine calls fn every interval until exitchan closes.
func tickerRoutine(interval time.Duration, fn func()) func(<-chan struct{}) {
	return func(exitchan <-chan struct{}) {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-exitchan:
				return
			case <-t.C:
				fn()
			}
		}
	}
}

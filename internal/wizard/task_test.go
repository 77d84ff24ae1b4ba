package wizard

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTaskFires(t *testing.T) {
	var n atomic.Int32
	task := Schedule(time.Millisecond, func() { n.Add(1) })
	<-task.Done()
	if n.Load() != 1 {
		t.Fatalf("ran %d times", n.Load())
	}
	if task.Cancel() {
		t.Fatal("cancel after firing should report false")
	}
}

func TestTaskCancel(t *testing.T) {
	var n atomic.Int32
	task := Schedule(time.Hour, func() { n.Add(1) })
	if !task.Cancel() {
		t.Fatal("first cancel should succeed")
	}
	if task.Cancel() {
		t.Fatal("second cancel should report false")
	}
	<-task.Done()
	if n.Load() != 0 {
		t.Fatal("cancelled task ran")
	}
}

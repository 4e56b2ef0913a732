// Package nlog - udx driver logger: buffering, timestamping, severities, flushing
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package nlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

const bufSize = 32 * 1024

var sevText = [...]string{"I", "W", "E"}

type nlog struct {
	mw  sync.Mutex
	w   *bufio.Writer
	out io.Writer
}

var (
	title  = "udx"
	logDir string
	logger = &nlog{out: os.Stderr}
	once   sync.Once
)

func SetTitle(s string)    { title = s }
func SetLogDir(dir string) { logDir = dir }

func _open() {
	if logDir == "" {
		logger.w = bufio.NewWriterSize(logger.out, bufSize)
		return
	}
	fqn := filepath.Join(logDir, title+".log")
	file, err := os.OpenFile(fqn, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "nlog:", err)
	} else {
		logger.out = file
	}
	logger.w = bufio.NewWriterSize(logger.out, bufSize)
}

func log(sev severity, depth int, format string, args ...any) {
	once.Do(_open)
	_, fn, ln, ok := runtime.Caller(2 + depth)
	if !ok {
		fn, ln = "???", 0
	}
	var msg string
	if format == "" {
		msg = fmt.Sprint(args...)
	} else {
		msg = fmt.Sprintf(format, args...)
	}
	now := time.Now()
	logger.mw.Lock()
	fmt.Fprintf(logger.w, "%s %s %s:%d %s\n",
		sevText[sev], now.Format("15:04:05.000000"), filepath.Base(fn), ln, msg)
	if sev >= sevWarn {
		logger.w.Flush()
	}
	logger.mw.Unlock()
}

func InfoDepth(depth int, args ...any)    { log(sevInfo, depth, "%s", fmt.Sprint(args...)) }
func Infoln(args ...any)                  { log(sevInfo, 0, "%s", fmt.Sprint(args...)) }
func Infof(format string, args ...any)    { log(sevInfo, 0, format, args...) }
func Warningln(args ...any)               { log(sevWarn, 0, "%s", fmt.Sprint(args...)) }
func Warningf(format string, args ...any) { log(sevWarn, 0, format, args...) }
func ErrorDepth(depth int, args ...any)   { log(sevErr, depth, "%s", fmt.Sprint(args...)) }
func Errorln(args ...any)                 { log(sevErr, 0, "%s", fmt.Sprint(args...)) }
func Errorf(format string, args ...any)   { log(sevErr, 0, format, args...) }

func Flush(exit ...bool) {
	once.Do(_open)
	logger.mw.Lock()
	logger.w.Flush()
	if len(exit) > 0 && exit[0] {
		if file, ok := logger.out.(*os.File); ok && file != os.Stderr {
			file.Sync()
		}
	}
	logger.mw.Unlock()
}

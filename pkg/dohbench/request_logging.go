package dohbench

import (
	"log"
	"time"
)

func logRequest(provider, domain, queryType string, round int, err error, dur time.Duration) {
	result := "ok"
	if err != nil {
		result = err.Error()
	}
	log.Printf("provider:[%s] qname:[%s] qtype:[%s] round:[%d] result:[%s] duration:[%v]",
		provider, domain, queryType, round, result, dur)
}

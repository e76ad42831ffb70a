package model

import "time"

type Job struct {
	Id         string    `storm:"id" json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	SentDate   time.Time `storm:"index" json:"sentDate"`
	Items      int       `json:"items"`
	Delivered  int       `json:"delivered"`
	InTransit  int       `json:"inTransit"`
	Exceptions int       `json:"exceptions"`
	Priority   string    `json:"priority"`
}

type TrackingEvent struct {
	JobId     string    `json:"jobId"`
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	Location  string    `json:"location"`
	Signature string    `json:"signature,omitempty"`
	Completed bool      `json:"completed"`
}

//CacheEntry is the persistent mirror record of a cached pdf blob
type CacheEntry struct {
	Key     string `storm:"id" json:"key"`
	DataUrl string `json:"dataUrl"`
}

package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentListKey returns the cache key for the full student list.
func (r *CacheKeyStruct) StudentListKey() string {
	return "students:all"
}

// StudentKey returns the cache key for a single student record.
func (r *CacheKeyStruct) StudentKey(email string) string {
	return fmt.Sprintf("students:%s", email)
}

var CacheKey = NewCacheKeyStruct()

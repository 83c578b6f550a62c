// Package cache provides a generic, thread-safe LRU cache used to bound
// in-process state such as the memory session store.
//
//	c := cache.NewLRU[string, []byte](10_000)
//	c.Put("id", payload)
//	v, ok := c.Get("id")
//	c.RemoveFunc(func(_ string, v []byte) bool { return len(v) == 0 })
//
// A capacity of zero or less disables eviction. OnEvict registers a callback
// for entries dropped by the cache itself.
package cache

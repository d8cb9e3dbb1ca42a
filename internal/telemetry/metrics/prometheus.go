package metrics

import (
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SetupPrometheus returns the registry served on /metrics, with build, go runtime and
// process collectors, and whatever extra collectors are given (e.g. redis pool stats)
func SetupPrometheus(extraCollectors ...prometheus.Collector) *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promRegistry.MustRegister(extraCollectors...)
	return promRegistry
}

type redisPoolStatter interface {
	PoolStats() *redis.PoolStats
}

var _ prometheus.Collector = (*RedisPoolCollector)(nil)

// RedisPoolCollector exposes go-redis connection pool stats
type RedisPoolCollector struct {
	client redisPoolStatter

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	timeouts   *prometheus.Desc
	totalConns *prometheus.Desc
	idleConns  *prometheus.Desc
	staleConns *prometheus.Desc
}

func NewRedisPoolCollector(client redisPoolStatter, constLabels prometheus.Labels) *RedisPoolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("redis", "pool", name), help, nil, constLabels)
	}
	return &RedisPoolCollector{
		client:     client,
		hits:       desc("hits_total", "Times a free connection was found in the pool"),
		misses:     desc("misses_total", "Times a free connection was NOT found in the pool"),
		timeouts:   desc("timeouts_total", "Times a wait timeout occurred"),
		totalConns: desc("total_connections", "Number of total connections in the pool"),
		idleConns:  desc("idle_connections", "Number of idle connections in the pool"),
		staleConns: desc("stale_connections_total", "Stale connections removed from the pool"),
	}
}

func (c *RedisPoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.timeouts
	ch <- c.totalConns
	ch <- c.idleConns
	ch <- c.staleConns
}

func (c *RedisPoolCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.client.PoolStats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(c.timeouts, prometheus.CounterValue, float64(stats.Timeouts))
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(stats.TotalConns))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(stats.IdleConns))
	ch <- prometheus.MustNewConstMetric(c.staleConns, prometheus.CounterValue, float64(stats.StaleConns))
}

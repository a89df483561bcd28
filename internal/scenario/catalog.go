package scenario

// Catalog returns the static historical-incident knowledge base. Entries are
// indexed as-is except for a freshly randomized creation timestamp per seed.
func Catalog() []Incident {
	return []Incident{
		{
			IncidentID:       "INC-001",
			Title:            "Payment service OOM crash during Black Friday surge",
			RootCause:        "Memory leak in payment-service connection pool. The JDBC connection pool was not releasing connections on transaction timeout, leading to heap exhaustion under load.",
			Resolution:       "Patched connection pool library to v3.2.1, added connection timeout of 30s, increased heap to 4GB, and added memory-based autoscaling.",
			ServicesAffected: []string{"payment-service", "order-service", "api-gateway"},
			Severity:         "critical",
			DurationMin:      45,
			Tags:             []string{"oom", "memory", "payment", "connection-pool", "black-friday"},
			Runbook:          "When payment-service experiences OOM: 1) Check heap usage with `kubectl top pods -n payments`. 2) If heap > 90%, restart the pod: `kubectl rollout restart deployment/payment-service`. 3) Check connection pool metrics: `GET /actuator/metrics/hikaricp.connections.active`. 4) If connections are not being released, apply hotfix: scale up replicas to 5 and patch connection timeout. 5) Monitor for 15 minutes. 6) If issue persists, failover to payment-service-backup.",
		},
		{
			IncidentID:       "INC-002",
			Title:            "API Gateway CPU spike from recursive middleware loop",
			RootCause:        "A misconfigured middleware in api-gateway caused a recursive call loop when processing requests with specific headers. CPU spiked to 100% across all gateway pods.",
			Resolution:       "Identified the faulty middleware rule via CPU profiling, rolled back to previous gateway config version, added middleware stack depth limit of 10.",
			ServicesAffected: []string{"api-gateway", "auth-service"},
			Severity:         "critical",
			DurationMin:      32,
			Tags:             []string{"cpu", "api-gateway", "middleware", "recursion", "config"},
			Runbook:          "When api-gateway CPU spikes above 95%: 1) Check recent config deployments: `kubectl get configmap api-gateway-config -o yaml`. 2) Compare with last known good config. 3) If config changed recently, rollback: `kubectl rollout undo deployment/api-gateway`. 4) If CPU stays high, check for recursive middleware: `curl localhost:8080/actuator/threaddump | grep middleware`. 5) Scale up to absorb traffic while investigating.",
		},
		{
			IncidentID:       "INC-003",
			Title:            "Cascading failure from auth-service certificate expiry",
			RootCause:        "TLS certificate for auth-service expired at 00:00 UTC. All services depending on auth-service started failing, creating a cascade. Circuit breakers activated but the retry storms amplified the load.",
			Resolution:       "Renewed TLS certificate, restarted auth-service, then gradually reopened circuit breakers across dependent services. Added certificate expiry monitoring to prevent recurrence.",
			ServicesAffected: []string{"auth-service", "api-gateway", "payment-service", "user-service", "order-service"},
			Severity:         "critical",
			DurationMin:      67,
			Tags:             []string{"cascading", "tls", "certificate", "auth", "circuit-breaker"},
			Runbook:          "When auth-service connections are refused across multiple services: 1) Check auth-service TLS cert: `openssl s_client -connect auth-service:443 2>/dev/null | openssl x509 -noout -dates`. 2) If cert expired, renew immediately: `certbot renew --deploy-hook 'kubectl rollout restart deployment/auth-service'`. 3) After auth is back, reset circuit breakers on dependent services one at a time, starting with api-gateway. 4) Monitor error rates for 30 minutes before declaring resolved.",
		},
		{
			IncidentID:       "INC-004",
			Title:            "Search service latency spike from unoptimized Elasticsearch query",
			RootCause:        "A new feature deployment included a wildcard query on a large index without proper filters, causing ES cluster CPU to saturate and search latency to spike to 15s.",
			Resolution:       "Identified the offending query via slow query log, added index filters and pagination, redeployed search-service with the fix.",
			ServicesAffected: []string{"search-service"},
			Severity:         "high",
			DurationMin:      22,
			Tags:             []string{"latency", "elasticsearch", "query", "search"},
			Runbook:          "When search-service latency exceeds 5s: 1) Check ES slow query log: `GET /_nodes/stats/indices/search`. 2) Identify the slow query. 3) If wildcard query, add filters or convert to prefix query. 4) If cluster CPU > 90%, enable circuit breaker: `PUT /_cluster/settings {\"transient\": {\"indices.breaker.total.limit\": \"70%\"}}`. 5) Redeploy search-service with fix.",
		},
		{
			IncidentID:       "INC-005",
			Title:            "Database connection exhaustion on prod-db-01",
			RootCause:        "A background job in user-service opened database connections without closing them properly. After 6 hours of running, all 200 connection slots on prod-db-01 were consumed.",
			Resolution:       "Killed the runaway background job, released stale connections, patched user-service to use connection pooling with max 20 connections per service instance.",
			ServicesAffected: []string{"user-service", "auth-service", "order-service"},
			Severity:         "high",
			DurationMin:      38,
			Tags:             []string{"database", "connections", "leak", "user-service", "production"},
			Runbook:          "When database connections are exhausted: 1) Check active connections: `SELECT count(*) FROM pg_stat_activity WHERE state = 'active'`. 2) Identify the service holding most connections: `SELECT application_name, count(*) FROM pg_stat_activity GROUP BY application_name ORDER BY count DESC`. 3) Kill idle connections: `SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE state = 'idle' AND query_start < NOW() - interval '10 minutes'`. 4) Restart the offending service. 5) Add connection pool limits.",
		},
		{
			IncidentID:       "INC-006",
			Title:            "Notification service disk full causing message loss",
			RootCause:        "Notification service log volume on prod-app-02 filled the disk to 100%. The service could not write to its message queue, causing notifications to be silently dropped.",
			Resolution:       "Cleared old logs, rotated log files, added log retention policy (7 days max, 10GB cap), added disk usage monitoring alert at 80%.",
			ServicesAffected: []string{"notification-service"},
			Severity:         "medium",
			DurationMin:      18,
			Tags:             []string{"disk", "logs", "notification", "message-loss"},
			Runbook:          "When disk usage exceeds 90% on any host: 1) Check what's consuming disk: `du -sh /var/log/* | sort -rh | head`. 2) If logs, rotate immediately: `logrotate -f /etc/logrotate.conf`. 3) Delete logs older than 7 days: `find /var/log -name '*.log' -mtime +7 -delete`. 4) Restart the affected service. 5) Verify message queue is draining: `curl localhost:8080/actuator/metrics/queue.size`.",
		},
		{
			IncidentID:       "INC-007",
			Title:            "Cache stampede on prod-cache-01 after cold restart",
			RootCause:        "After a planned maintenance restart of prod-cache-01, all cached data was evicted. The simultaneous cache miss storm from all services overwhelmed the database backend.",
			Resolution:       "Implemented cache warming script that pre-populates hot keys before bringing cache online. Added gradual traffic ramp-up after cache restart.",
			ServicesAffected: []string{"api-gateway", "search-service", "user-service", "order-service"},
			Severity:         "high",
			DurationMin:      25,
			Tags:             []string{"cache", "stampede", "cold-start", "redis"},
			Runbook:          "After cache restart: 1) Run cache warming script before routing traffic: `python warm_cache.py --keys hot_keys.txt`. 2) Enable gradual traffic ramp: increase weight from 10% to 100% over 10 minutes. 3) Monitor cache hit ratio: should reach >80% within 5 minutes. 4) If DB load spikes, temporarily enable read replicas.",
		},
		{
			IncidentID:       "INC-008",
			Title:            "Inventory service race condition causing overselling",
			RootCause:        "Concurrent stock decrement operations on inventory-service were not using optimistic locking. Under high load, multiple orders could reserve the same unit of stock.",
			Resolution:       "Added optimistic locking with version check on inventory updates. Implemented idempotency keys for order placement. Added stock reconciliation job running every 5 minutes.",
			ServicesAffected: []string{"inventory-service", "order-service"},
			Severity:         "critical",
			DurationMin:      90,
			Tags:             []string{"race-condition", "inventory", "concurrency", "data-integrity"},
			Runbook:          "When overselling is detected: 1) Immediately pause order intake: `kubectl scale deployment/order-service --replicas=0`. 2) Run stock reconciliation: `python reconcile_stock.py --fix`. 3) Contact affected customers. 4) Deploy fix with optimistic locking. 5) Resume order service with reduced replicas, monitor for 1 hour.",
		},
	}
}

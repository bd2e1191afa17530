package patterns

// defaultRule pairs a regex source with its anomaly category. Order matters:
// when a line satisfies more than one rule, the earliest registered rule wins.
type defaultRule struct {
	Source   string
	Category string
}

// defaultRules is the built-in classification table, grouped roughly by
// subsystem. Matching is case-insensitive.
var defaultRules = []defaultRule{
	// Kernel and system crashes
	{`Kernel panic`, "KERNEL_PANIC"},
	{`Crashdump magic`, "CRASH_DUMP"},
	{`Call Trace`, "CALL_TRACE"},
	{`Segmentation Fault|segfault`, "SEGMENTATION_FAULT"},
	{`Backtrace`, "BACKTRACE"},
	{`watchdog bite`, "WATCHDOG_BITE"},
	{`Oops`, "OOPS_TRACE"},

	// Memory
	{`page\+allocation\s+failure`, "PAGE_ALLOCATION_FAILURE"},
	{`Unable to handle kernel NULL pointer dereference`, "MEMORY_CORRUPTION"},
	{`Unable to handle kernel paging request`, "MEMORY_CORRUPTION"},
	{`Out of memory: Kill process`, "OUT_OF_MEMORY"},
	{`ERROR:NBUF alloc failed`, "LOW_MEMORY"},

	// Reboot loops
	{`Reboot Reason`, "DEVICE_REBOOT"},
	{`System restart`, "DEVICE_REBOOT"},

	// Interfaces
	{`Interface down`, "INTERFACE_DOWN"},
	{`Link is down`, "INTERFACE_DOWN"},
	{`carrier lost`, "INTERFACE_DOWN"},
	{`entered disabled state`, "INTERFACE_DISABLED"},

	// Authentication
	{`authentication failed`, "AUTH_FAILURE"},
	{`Authentication timeout`, "AUTH_TIMEOUT"},
	{`Invalid credentials`, "AUTH_INVALID_CREDS"},
	{`Access denied`, "AUTH_ACCESS_DENIED"},

	// Network
	{`Packet loss`, "PACKET_LOSS"},
	{`High latency`, "HIGH_LATENCY"},
	{`Connection timeout`, "CONNECTION_TIMEOUT"},
	{`No route to host`, "NO_ROUTE"},
	{`Network unreachable`, "NETWORK_UNREACHABLE"},

	// Configuration
	{`Configuration mismatch`, "CONFIG_MISMATCH"},
	{`Invalid configuration`, "CONFIG_INVALID"},
	{`Configuration error`, "CONFIG_ERROR"},

	// WiFi
	{`vap_down`, "VAP_DOWN"},
	{`Received CSA`, "CHANNEL_SWITCH"},
	{`Invalid beacon report`, "BEACON_REPORT_ISSUE"},

	// Resources and timing
	{`Resource manager crash`, "RESOURCE_MANAGER_CRASH"},
	{`timeout waiting`, "TIMEOUT"},

	// Warnings
	{`CPU:\d+ WARNING`, "CPU_WARNING"},
}

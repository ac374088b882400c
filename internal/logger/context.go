package logger

// Component-specific logger functions

// HTTP returns a logger for HTTP handling
func HTTP() Logger {
	return WithField("component", "http")
}

// DB returns a logger for database operations
func DB() Logger {
	return WithField("component", "db")
}

// Service returns a logger for service-layer operations
func Service() Logger {
	return WithField("component", "service")
}

// Stats returns a logger for statistics aggregation
func Stats() Logger {
	return WithField("component", "stats")
}

// CLI returns a logger for CLI operations
func CLI() Logger {
	return WithField("component", "cli")
}

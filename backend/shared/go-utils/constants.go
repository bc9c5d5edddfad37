package utils

const (
	OrganizationName                      = "Qaribu"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"
)

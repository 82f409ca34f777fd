package rules

import (
	"regexp"

	"github.com/complyscan/complyscan/internal/types"
)

// builtin returns the built-in rule set. Patterns here are maintained by
// hand and compiled once; a broken builtin is a programmer error.
func builtin() []Rule {
	mk := func(id string, fw types.Framework, control string, sev types.Severity, pattern string, globs []string, why, fix, conf string) Rule {
		return Rule{
			ID:           id,
			Framework:    fw,
			ControlID:    control,
			Severity:     sev,
			Pattern:      regexp.MustCompile("(?im)" + pattern),
			FileGlobs:    globs,
			WhyItMatters: why,
			Remediation:  fix,
			Confidence:   conf,
		}
	}
	configGlobs := []string{"*.yml", "*.yaml", "*.json", "*.conf", "*.ini", "*.toml", "*.tf", "*.tfvars", "*.env", "*.properties"}
	codeGlobs := []string{"*.go", "*.py", "*.js", "*.ts", "*.java", "*.rb", "*.php", "*.cs", "*.sh", "*.sql"}

	return []Rule{
		mk("disabled_tls", types.FwISO27001, "A.13", types.SevHigh,
			`(ssl|tls|verify)\s*[:=]\s*["']?false`,
			configGlobs,
			"Disabled encryption exposes data in transit to interception",
			"Enable TLS/SSL and certificate verification",
			"high"),
		mk("broad_iam_policy", types.FwSOC2, "CC 6.2", types.SevCritical,
			`"Action"\s*:\s*"\*"[\s\S]{0,200}?"Resource"\s*:\s*"\*"|"Resource"\s*:\s*"\*"[\s\S]{0,200}?"Action"\s*:\s*"\*"`,
			[]string{"*.json", "*.tf", "*.yml", "*.yaml"},
			"Wildcard permissions violate the principle of least privilege",
			"Restrict actions and resources to the specific permissions required",
			"high"),
		mk("public_storage", types.FwGDPR, "Article 32", types.SevHigh,
			`"public"\s*:\s*true|public\s*=\s*true|acl\s*[:=]\s*["']?public-read`,
			configGlobs,
			"Public access may expose personal data",
			"Review and restrict public access to necessary resources only",
			"high"),
		mk("weak_cipher", types.FwISO27001, "A.10", types.SevHigh,
			`cipher[^\n]*\b(rc4|des|md5)\b`,
			configGlobs,
			"Weak cryptographic algorithms are vulnerable to attacks",
			"Use strong cipher suites (AES-256, SHA-256 or higher)",
			"high"),
		mk("hardcoded_password", types.FwISO27001, "A.9", types.SevHigh,
			`(password|passwd|pwd)\s*[:=]\s*["'][^"']{4,}["']`,
			append(append([]string{}, codeGlobs...), configGlobs...),
			"Hardcoded credentials are recoverable by anyone with repository access",
			"Move credentials into a secret manager and rotate the exposed value",
			"medium"),
		mk("aws_access_key", types.FwSOC2, "CC 6.1", types.SevCritical,
			`\bAKIA[0-9A-Z]{16}\b`,
			nil,
			"Leaked cloud credentials allow direct access to production systems",
			"Revoke the key, rotate credentials, and audit CloudTrail for misuse",
			"high"),
		mk("private_key_block", types.FwSOC2, "CC 6.1", types.SevCritical,
			`-----BEGIN (RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`,
			nil,
			"A committed private key compromises every system trusting it",
			"Remove the key from the repository, rotate it, and purge history",
			"high"),
		mk("generic_api_key", types.FwSOC2, "CC 6.1", types.SevHigh,
			`(api[_-]?key|api[_-]?secret|access[_-]?token)\s*[:=]\s*["'][A-Za-z0-9_\-]{16,}["']`,
			append(append([]string{}, codeGlobs...), configGlobs...),
			"Exposed API credentials grant attackers the key owner's privileges",
			"Revoke the credential and load it from the environment or a vault",
			"medium"),
		mk("pii_ssn", types.FwGDPR, "Article 5", types.SevHigh,
			`\b\d{3}-\d{2}-\d{4}\b`,
			nil,
			"National identifiers are special-category personal data",
			"Remove or tokenize stored identifiers; collect only what is necessary",
			"low"),
		mk("pii_email_log", types.FwGDPR, "Article 5", types.SevMed,
			`(log|print|console\.log|logger)[^\n]*\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`,
			codeGlobs,
			"Logging personal data creates uncontrolled copies subject to GDPR",
			"Mask or drop personal data before it reaches log output",
			"medium"),
		mk("http_url_credentials", types.FwISO27001, "A.13", types.SevHigh,
			`[a-z][a-z0-9+.\-]*://[^/\s:@]+:[^/\s:@]+@`,
			nil,
			"Credentials embedded in URLs leak through logs and shell history",
			"Use a credential helper or environment-provided secrets instead",
			"high"),
		mk("debug_enabled", types.FwSOC2, "CC 7.1", types.SevMed,
			`\bdebug\s*[:=]\s*["']?true`,
			configGlobs,
			"Debug mode exposes stack traces and internal state to users",
			"Disable debug mode in production configurations",
			"medium"),
		mk("open_cidr_ingress", types.FwISO27001, "A.13", types.SevHigh,
			`(cidr_blocks?|source_address_prefix|cidr)\s*[:=]\s*\[?\s*["']0\.0\.0\.0/0`,
			[]string{"*.tf", "*.tfvars", "*.yml", "*.yaml", "*.json"},
			"Unrestricted ingress exposes services to the entire internet",
			"Limit ingress rules to known networks or load balancer ranges",
			"high"),
		mk("retention_unlimited", types.FwGDPR, "Article 5", types.SevMed,
			`retention[_-]?(days|period)?\s*[:=]\s*["']?(0|-1|unlimited|forever|never)\b`,
			configGlobs,
			"Indefinite retention of personal data violates storage limitation",
			"Define and enforce a retention period appropriate to the data",
			"medium"),
	}
}

// Builtin returns the built-in rule catalog.
func Builtin() *Catalog {
	c, err := NewCatalog(builtin())
	if err != nil {
		// Builtins are validated by tests; duplicate IDs cannot occur at runtime.
		panic(err)
	}
	return c
}

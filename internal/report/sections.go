package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yorozuya-cybersecurity/netrunner/internal/schema"
)

const (
	sectionRule     = "\n\n---\n\n"
	noFindingsLine  = "No vulnerabilities were identified during testing."
	displayDate     = "January 02, 2006"
	isoDate         = "2006-01-02"
	recordTimestamp = "2006-01-02 15:04:05"
)

// DefaultTools is listed in the appendix when no tools are supplied.
var DefaultTools = []string{
	"Nmap 7.94 - Network scanning and service enumeration",
	"Metasploit Framework 6.3 - Exploitation framework",
	"Burp Suite Community - Web application testing",
	"Gobuster 3.6 - Directory/file enumeration",
	"Hydra 9.4 - Credential brute-forcing",
	"SQLMap 1.7 - SQL injection automation",
	"Nikto 2.5 - Web server scanning",
}

// severityCounts tallies findings per level. LevelOther collects every
// severity outside the four canonical names.
func severityCounts(findings []schema.Finding) map[schema.Level]int {
	counts := map[schema.Level]int{}
	for _, f := range findings {
		counts[f.Level()]++
	}
	return counts
}

// sortedFindings orders by level, keeping insertion order within a level.
func sortedFindings(findings []schema.Finding) []schema.Finding {
	out := append([]schema.Finding(nil), findings...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Level() < out[j].Level()
	})
	return out
}

// ExecutiveSummary renders the summary section. A non-empty custom text
// replaces the generated one.
func (r *Renderer) ExecutiveSummary(custom string) string {
	if custom != "" {
		return custom
	}

	counts := severityCounts(r.snap.Findings)
	total := len(r.snap.Findings)

	var b strings.Builder
	b.WriteString("## EXECUTIVE SUMMARY\n\n")
	fmt.Fprintf(&b, "A comprehensive penetration test was conducted against the target environment from %s.\n\n", r.now().Format(displayDate))
	b.WriteString("### Key Findings\n\n")
	fmt.Fprintf(&b, "**Total Vulnerabilities Identified: %d**\n\n", total)
	fmt.Fprintf(&b, "- **Critical:** %d findings\n", counts[schema.LevelCritical])
	fmt.Fprintf(&b, "- **High:** %d findings\n", counts[schema.LevelHigh])
	fmt.Fprintf(&b, "- **Medium:** %d findings\n", counts[schema.LevelMedium])
	fmt.Fprintf(&b, "- **Low:** %d findings\n", counts[schema.LevelLow])
	if n := counts[schema.LevelOther]; n > 0 {
		fmt.Fprintf(&b, "- **Other:** %d findings\n", n)
	}
	b.WriteString("\n### Risk Assessment\n\n")

	if n := counts[schema.LevelCritical]; n > 0 {
		fmt.Fprintf(&b, "⚠️ **CRITICAL RISK**: %d critical vulnerabilities require immediate attention. These vulnerabilities pose severe risk to the organization and could lead to complete system compromise, data breach, or significant operational impact.\n\n", n)
	}
	if n := counts[schema.LevelHigh]; n > 0 {
		fmt.Fprintf(&b, "⚠️ **HIGH RISK**: %d high-severity vulnerabilities were identified. These should be addressed within 30 days to prevent potential exploitation.\n\n", n)
	}

	b.WriteString(`### Recommendations

**Immediate Actions (0-7 days):**
- Address all critical vulnerabilities
- Change all default credentials
- Implement emergency patches

**Short-term Actions (7-30 days):**
- Remediate high-severity findings
- Implement Web Application Firewall (WAF)
- Deploy multi-factor authentication (MFA)

**Long-term Actions (30-90 days):**
- Establish vulnerability management program
- Conduct security awareness training
- Implement regular penetration testing schedule

`)
	return b.String()
}

// ScopeSection renders scope and methodology. Empty dates default to today.
// The duration line reports the number of recorded targets.
func (r *Renderer) ScopeSection(inScope, outScope []string, start, end string) string {
	today := r.now().Format(isoDate)
	if start == "" {
		start = today
	}
	if end == "" {
		end = today
	}

	var b strings.Builder
	b.WriteString("## SCOPE AND METHODOLOGY\n\n### Testing Timeline\n\n")
	fmt.Fprintf(&b, "- **Start Date:** %s\n", start)
	fmt.Fprintf(&b, "- **End Date:** %s\n", end)
	fmt.Fprintf(&b, "- **Total Duration:** %d systems tested\n\n", len(r.snap.Targets))

	b.WriteString("### In Scope\n\n")
	for _, item := range inScope {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	b.WriteString("\n### Out of Scope\n\n")
	for _, item := range outScope {
		fmt.Fprintf(&b, "- %s\n", item)
	}

	b.WriteString(`
### Methodology

The assessment followed industry-standard penetration testing methodologies including:

- **OWASP Testing Guide** - Web application security testing
- **PTES** (Penetration Testing Execution Standard)
- **NIST SP 800-115** - Technical Guide to Information Security Testing

#### Testing Phases

1. **Reconnaissance**
   - Network discovery and enumeration
   - Service identification and fingerprinting
   - Web application mapping

2. **Vulnerability Assessment**
   - Automated vulnerability scanning
   - Manual security testing
   - Configuration review

3. **Exploitation**
   - Proof-of-concept development
   - Controlled exploitation of vulnerabilities
   - Privilege escalation attempts

4. **Post-Exploitation**
   - Credential harvesting
   - Lateral movement testing
   - Impact assessment

5. **Reporting**
   - Comprehensive documentation
   - Risk analysis
   - Remediation recommendations

`)
	return b.String()
}

// FindingsSection renders the summary table and one subsection per finding,
// most severe first.
func (r *Renderer) FindingsSection() string {
	if len(r.snap.Findings) == 0 {
		return "## TECHNICAL FINDINGS\n\n" + noFindingsLine + "\n"
	}

	sorted := sortedFindings(r.snap.Findings)

	var b strings.Builder
	b.WriteString("## TECHNICAL FINDINGS\n\n")
	b.WriteString("### Findings Summary\n\n")
	b.WriteString("| # | Severity | Vulnerability | Affected Systems |\n")
	b.WriteString("|---|----------|---------------|------------------|\n")
	for i, f := range sorted {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, f.Severity, f.Title, summarizeSystems(f.AffectedSystems))
	}
	b.WriteString("\n---\n\n")

	for i, f := range sorted {
		fmt.Fprintf(&b, "### Finding #%d: %s\n\n", i+1, f.Title)
		fmt.Fprintf(&b, "**Severity:** %s\n\n", f.Severity)
		if !f.CVSS.IsZero() {
			fmt.Fprintf(&b, "**CVSS Score:** %s\n\n", f.CVSS)
		}
		if f.CVE != "" {
			fmt.Fprintf(&b, "**CVE:** %s\n\n", f.CVE)
		}
		b.WriteString("**Affected Systems:**\n\n")
		for _, system := range f.AffectedSystems {
			fmt.Fprintf(&b, "- %s\n", system)
		}
		fmt.Fprintf(&b, "\n**Description:**\n\n%s\n\n", f.Description)
		fmt.Fprintf(&b, "**Impact:**\n\n%s\n\n", f.Impact)
		fmt.Fprintf(&b, "**Proof of Concept:**\n\n```\n%s\n```\n\n", f.ProofOfConcept)
		fmt.Fprintf(&b, "**Remediation:**\n\n%s\n\n", f.Remediation)
		b.WriteString("---\n\n")
	}
	return b.String()
}

// summarizeSystems shows at most two systems and counts the rest.
func summarizeSystems(systems []string) string {
	if len(systems) <= 2 {
		return strings.Join(systems, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(systems[:2], ", "), len(systems)-2)
}

// Conclusion renders the closing section body.
func (r *Renderer) Conclusion() string {
	counts := severityCounts(r.snap.Findings)
	if counts[schema.LevelCritical] == 0 && counts[schema.LevelHigh] == 0 {
		return "## CONCLUSION\n\nNo significant vulnerabilities were identified during testing. The tested systems demonstrated adequate security controls.\n\n"
	}

	return fmt.Sprintf(`## CONCLUSION

The security assessment revealed %d vulnerabilities requiring remediation.

**Priority Actions:**

The identified critical and high-severity vulnerabilities pose significant risk and should be addressed immediately. Implementing the recommended security controls will substantially improve the organization's security posture.

**Next Steps:**

1. Review and prioritize findings with stakeholders
2. Develop remediation plan with timelines
3. Implement security fixes
4. Request re-assessment to validate remediations
5. Establish ongoing vulnerability management program

`, len(r.snap.Findings))
}

// Appendix renders tools, credentials, screenshots and references.
func (r *Renderer) Appendix(tools []string) string {
	if len(tools) == 0 {
		tools = DefaultTools
	}

	var b strings.Builder
	b.WriteString("## APPENDICES\n\n")
	b.WriteString("### Appendix A: Tools Used\n\n")
	for _, tool := range tools {
		fmt.Fprintf(&b, "- %s\n", tool)
	}

	if len(r.snap.Credentials) > 0 {
		b.WriteString("\n### Appendix B: Discovered Credentials\n\n")
		b.WriteString("| System | Service | Username | Password | Notes |\n")
		b.WriteString("|--------|---------|----------|----------|-------|\n")
		for _, c := range r.snap.Credentials {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", c.System, c.Service, c.Username, c.Password, c.Notes)
		}
	}

	if len(r.snap.Screenshots) > 0 {
		b.WriteString("\n### Appendix C: Screenshots\n\n")
		for _, s := range r.snap.Screenshots {
			fmt.Fprintf(&b, "**%s**\n", s.Filename)
			fmt.Fprintf(&b, "- Description: %s\n", s.Description)
			fmt.Fprintf(&b, "- Timestamp: %s\n\n", s.CreatedAt.Format(recordTimestamp))
		}
	}

	b.WriteString(`
### Appendix D: References

- OWASP Top 10: https://owasp.org/www-project-top-ten/
- CWE Top 25: https://cwe.mitre.org/top25/
- NIST Cybersecurity Framework: https://www.nist.gov/cyberframework
- SANS Top 25 Software Errors: https://www.sans.org/top25-software-errors/
- CVE Database: https://cve.mitre.org/

`)
	return b.String()
}

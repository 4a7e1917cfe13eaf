package genml

import (
	"fmt"
	"strings"
)

// Summary renders the fit as a plain-text coefficient table, one labeled row
// per design column. It is presentation layered over the structured result
// and never feeds back into estimation.
func (f *WLSFit) Summary() string {
	var b strings.Builder

	b.WriteString("Weighted Least Squares Results\n")
	b.WriteString(strings.Repeat("=", 78) + "\n")
	fmt.Fprintf(&b, "No. Observations: %-10d Df Residuals: %-10d Scale: %.6g\n",
		f.NObs, f.DOF, f.Sigma2)
	b.WriteString(strings.Repeat("-", 78) + "\n")
	fmt.Fprintf(&b, "%-28s %12s %10s %8s %8s\n", "", "coef", "std err", "t", "P>|t|")
	for _, c := range f.Coefficients {
		fmt.Fprintf(&b, "%-28s %12.4f %10.4f %8.3f %8.3f\n",
			c.Label, c.Estimate, c.StdErr, c.TValue, c.PValue)
	}
	b.WriteString(strings.Repeat("=", 78) + "\n")

	return b.String()
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"swissshield/internal/letter"
	"swissshield/internal/order"
	"swissshield/pkg/domain"
)

type renderOptions struct {
	sub        letter.Submission
	canton     string
	confession string
	out        string
	language   string
	date       string
	noPayroll  bool
}

func renderCmd(root *rootOptions) *cobra.Command {
	o := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a resignation letter PDF",
		Example: `  letterctl render --canton ZH --zip 8000 --confession catholic \
    --name "Anna Muster" --dob 1990-05-14 --address1 "Bahnhofstrasse 1" \
    --postal-city "8001 Zürich" --email anna@example.ch --out letter.pdf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, root, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.canton, "canton", "", "canton code, e.g. ZH")
	f.StringVar(&o.sub.Zip, "zip", "", "postal code used for routing")
	f.StringVar(&o.confession, "confession", "", "catholic or reformed")
	f.StringVar(&o.sub.FullName, "name", "", "full name of the person leaving")
	f.StringVar(&o.sub.DateOfBirth, "dob", "", "date of birth, YYYY-MM-DD")
	f.StringVar(&o.sub.AddressLine1, "address1", "", "street and number")
	f.StringVar(&o.sub.AddressLine2, "address2", "", "optional second address line")
	f.StringVar(&o.sub.PostalCity, "postal-city", "", `postal code and city, e.g. "8001 Zürich"`)
	f.StringVar(&o.sub.Email, "email", "", "contact email")
	f.StringVarP(&o.out, "out", "o", "", "output file (default kirchenaustritt-<CANTON>-<millis>.pdf)")
	f.StringVar(&o.language, "language", "", "german or by-canton (default follows the directory)")
	f.StringVar(&o.date, "date", "", "dateline date YYYY-MM-DD (default today)")
	f.BoolVar(&o.noPayroll, "no-payroll", false, "omit the payroll notification page")
	for _, name := range []string{"canton", "zip", "confession", "name", "address1", "postal-city"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, o *renderOptions) error {
	dir, err := loadDirectory(root)
	if err != nil {
		return err
	}
	canton, err := domain.ParseCanton(o.canton)
	if err != nil {
		return err
	}
	conf, err := domain.ParseConfession(o.confession)
	if err != nil {
		return err
	}
	o.sub.Canton = canton
	o.sub.Confession = conf

	match := dir.Resolve(canton, o.sub.Zip, conf)
	if !match.Found() {
		return fmt.Errorf("no office for %s/%s: %s", canton, conf, match.Message)
	}

	policyName := o.language
	if policyName == "" {
		policyName = dir.LanguagePolicy()
	}
	policy, err := letter.NewLanguagePolicy(policyName)
	if err != nil {
		return err
	}

	now := time.Now()
	if o.date != "" {
		if now, err = time.ParseInLocation(time.DateOnly, o.date, time.Local); err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}
	renderer := letter.NewRenderer(policy,
		letter.WithClock(func() time.Time { return now }),
		letter.WithPayrollPage(!o.noPayroll),
	)

	pdf, err := renderer.Render(context.Background(), o.sub, *match.Address)
	if err != nil {
		return err
	}

	out := o.out
	if out == "" {
		out = order.Filename(canton, now)
	}
	if err := os.WriteFile(out, pdf, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, %s match, recipient %s)\n", out, len(pdf), match.Kind, match.Address.ID)
	return nil
}

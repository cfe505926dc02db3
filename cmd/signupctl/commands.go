package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	dto "github.com/dropDatabas3/signupform/internal/http/dto/signup"
	"github.com/dropDatabas3/signupform/internal/signup"
)

// errNotSubmittable hace que el proceso termine con código 1 sin imprimir
// un error extra (el checklist ya lo explica).
var errNotSubmittable = errors.New("form is not submittable")

func exitCode(err error) int {
	if errors.Is(err, errNotSubmittable) {
		return 1
	}
	return 2
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var outFormat string

	root := &cobra.Command{
		Use:           "signupctl",
		Short:         "Herramientas del formulario de registro (reglas de password)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.PersistentFlags().StringVar(&outFormat, "out", envOr("SIGNUPCTL_OUT", "text"), "Formato de salida: json|text")

	// rules
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Lista el catálogo de reglas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := signup.Catalog()
			if outFormat == "json" {
				items := make([]dto.RuleCatalogItem, len(cat))
				for i, r := range cat {
					items[i] = dto.RuleCatalogItem{ID: string(r.ID), Label: r.Label}
				}
				return printJSON(cmd.OutOrStdout(), dto.RulesResponse{Rules: items})
			}
			for _, r := range cat {
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", r.ID, r.Label)
			}
			return nil
		},
	}

	// check
	var email, password, confirm string
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Evalúa un password localmente (sin servidor)",
		Long:  "Evalúa un password contra el catálogo. Sin --password lo lee de stdin (primera línea).",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("password") {
				p, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = p
			}
			if !cmd.Flags().Changed("confirm") {
				confirm = password
			}

			rs := signup.EvaluatePassword(password)
			resp := dto.EvaluateResponse{
				Rules:               dto.Rules(rs),
				PasswordMatch:       signup.EvaluateConfirmation(password, confirm),
				ConfirmationEntered: confirm != "",
				Submittable:         signup.IsSubmittable(email, rs, password, confirm),
			}
			if err := render(cmd.OutOrStdout(), outFormat, resp); err != nil {
				return err
			}
			if !resp.Submittable {
				return errNotSubmittable
			}
			return nil
		},
	}
	checkCmd.Flags().StringVar(&email, "email", "user@example.com", "Email a usar en el gate de envío")
	checkCmd.Flags().StringVar(&password, "password", "", "Password a evaluar (default: stdin)")
	checkCmd.Flags().StringVar(&confirm, "confirm", "", "Confirmación (default: igual al password)")

	// evaluate (remoto)
	var baseURL string
	var timeout time.Duration
	evalCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evalúa vía POST /v1/signup/evaluate de un servidor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("password") {
				p, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = p
			}
			if !cmd.Flags().Changed("confirm") {
				confirm = password
			}
			body, _ := json.Marshal(dto.EvaluateRequest{Email: email, Password: password, ConfirmPassword: confirm})

			hc := &http.Client{Timeout: timeout}
			url := strings.TrimRight(baseURL, "/") + "/v1/signup/evaluate"
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			res, err := hc.Do(req)
			if err != nil {
				return err
			}
			defer res.Body.Close()
			raw, _ := io.ReadAll(res.Body)
			if res.StatusCode/100 != 2 {
				return fmt.Errorf("evaluate fallo: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(raw)))
			}

			var resp dto.EvaluateResponse
			if err := json.Unmarshal(raw, &resp); err != nil {
				return fmt.Errorf("respuesta inválida: %w", err)
			}
			if err := render(cmd.OutOrStdout(), outFormat, resp); err != nil {
				return err
			}
			if !resp.Submittable {
				return errNotSubmittable
			}
			return nil
		},
	}
	evalCmd.Flags().StringVar(&baseURL, "url", envOr("SIGNUP_URL", "http://localhost:8080"), "URL base del servicio (env SIGNUP_URL)")
	evalCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Timeout del request")
	evalCmd.Flags().StringVar(&email, "email", "user@example.com", "Email a usar en el gate de envío")
	evalCmd.Flags().StringVar(&password, "password", "", "Password a evaluar (default: stdin)")
	evalCmd.Flags().StringVar(&confirm, "confirm", "", "Confirmación (default: igual al password)")

	root.AddCommand(rulesCmd, checkCmd, evalCmd)
	return root
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render imprime el checklist: ✓ regla cumplida, • pendiente.
func render(w io.Writer, format string, resp dto.EvaluateResponse) error {
	if format == "json" {
		return printJSON(w, resp)
	}
	for _, r := range resp.Rules {
		mark := "•"
		if r.Satisfied {
			mark = "✓"
		}
		fmt.Fprintf(w, "%s %s\n", mark, r.Label)
	}
	switch {
	case !resp.ConfirmationEntered:
		fmt.Fprintln(w, "• Confirm password")
	case resp.PasswordMatch:
		fmt.Fprintln(w, "✓ Passwords match")
	default:
		fmt.Fprintln(w, "• Passwords do not match")
	}
	fmt.Fprintf(w, "submittable: %t\n", resp.Submittable)
	return nil
}

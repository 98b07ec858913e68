// Package cli provides the Cobra-based cashier terminal. It is presentation
// plumbing only: every command delegates to the cart store, catalog,
// checkout service, or backend client and renders the result.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/swiftretail/pos-terminal/internal/cart"
	"github.com/swiftretail/pos-terminal/internal/catalog"
	"github.com/swiftretail/pos-terminal/internal/checkout"
	"github.com/swiftretail/pos-terminal/internal/config"
	apperrors "github.com/swiftretail/pos-terminal/internal/errors"
	"github.com/swiftretail/pos-terminal/internal/metrics"
	"github.com/swiftretail/pos-terminal/internal/models"
	"github.com/swiftretail/pos-terminal/internal/money"
	"github.com/swiftretail/pos-terminal/internal/notify"
	"github.com/swiftretail/pos-terminal/internal/reports"
	"github.com/swiftretail/pos-terminal/internal/session"
	"github.com/swiftretail/pos-terminal/pkg/backend"
)

type Terminal struct {
	cfg      *config.Config
	client   backend.Client
	session  *session.Session
	cart     *cart.Store
	catalog  *catalog.Service
	checkout *checkout.Service
	notifier notify.Notifier
	out      io.Writer
	in       io.Reader
}

func New(cfg *config.Config, client backend.Client, sess *session.Session, cartStore *cart.Store, catalogSvc *catalog.Service, checkoutSvc *checkout.Service, notifier notify.Notifier, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		cfg:      cfg,
		client:   client,
		session:  sess,
		cart:     cartStore,
		catalog:  catalogSvc,
		checkout: checkoutSvc,
		notifier: notifier,
		out:      out,
		in:       in,
	}
}

// Execute runs one command line through a fresh command tree. Cobra keeps
// flag values and their Changed state on the command after a run, so a
// shared tree would leak one dispatch's flags into the next; building per
// call keeps every line independent.
func (t *Terminal) Execute(args ...string) error {
	root := t.buildRoot()
	root.SetArgs(args)

	return root.Execute()
}

func (t *Terminal) buildRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "pos-terminal",
		Short:         "Cashier terminal for the POS backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(t.out)
	root.SetErr(t.out)

	root.AddCommand(
		t.loginCmd(),
		t.logoutCmd(),
		t.productsCmd(),
		t.refreshCmd(),
		t.addCmd(),
		t.removeCmd(),
		t.incCmd(),
		t.decCmd(),
		t.cartCmd(),
		t.discountCmd(),
		t.taxCmd(),
		t.checkoutCmd(),
		t.exportCmd(),
		t.shellCmd(),
	)

	return root
}

func (t *Terminal) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in a cashier",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := t.client.Login(cmd.Context(), &models.LoginRequest{Email: email, Password: password})
			if err != nil {
				t.notifier.Error(userMessage(err, "Login failed"))

				return notified(err)
			}

			t.session.SignIn(resp.User)
			fmt.Fprintf(t.out, "Signed in as %s (%s)\n", resp.Name, resp.Role)

			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (t *Terminal) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out the current cashier",
		RunE: func(cmd *cobra.Command, args []string) error {
			t.session.SignOut()
			t.client.SetToken("")
			t.notifier.Success("Logged out successfully")

			return nil
		},
	}
}

func (t *Terminal) productsCmd() *cobra.Command {
	var category, search string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(t.catalog.Products()) == 0 {
				if err := t.catalog.Refresh(cmd.Context()); err != nil {
					return err
				}
			}

			products := t.catalog.Filter(category, search)
			if len(products) == 0 {
				fmt.Fprintln(t.out, "No products found")

				return nil
			}

			w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY\tSTOCK")

			for _, p := range products {
				stock := strconv.Itoa(p.Stock)
				if p.LowOnStock() {
					stock += " (low)"
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					p.ID, p.Name, money.Format(t.cfg.Display.CurrencySymbol, p.Price), p.Category, stock)
			}

			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "All", "category filter")
	cmd.Flags().StringVar(&search, "search", "", "name search")

	return cmd
}

func (t *Terminal) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refetch the product catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := t.catalog.Refresh(cmd.Context()); err != nil {
				t.notifier.Error(userMessage(err, "Failed to fetch products"))

				return notified(err)
			}

			fmt.Fprintf(t.out, "Catalog refreshed: %d products\n", len(t.catalog.Products()))

			return nil
		},
	}
}

func (t *Terminal) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, ok := t.catalog.Get(args[0])
			if !ok {
				return apperrors.NotFoundError("Product not found: " + args[0])
			}

			ev := t.cart.AddItem(product)
			metrics.CartMutation("add")
			notify.Dispatch(t.notifier, ev)

			return nil
		},
	}
}

func (t *Terminal) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev := t.cart.RemoveItem(args[0])
			metrics.CartMutation("remove")
			notify.Dispatch(t.notifier, ev)

			return nil
		},
	}
}

func (t *Terminal) incCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inc <product-id>",
		Short: "Increase a line's quantity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t.cart.IncrementQuantity(args[0])
			metrics.CartMutation("increment")

			return nil
		},
	}
}

func (t *Terminal) decCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dec <product-id>",
		Short: "Decrease a line's quantity, removing it at one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev := t.cart.DecrementQuantity(args[0])
			metrics.CartMutation("decrement")
			notify.Dispatch(t.notifier, ev)

			return nil
		},
	}
}

func (t *Terminal) cartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cart",
		Short: "Show the current order",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := t.cart.Snapshot()

			if snap.Empty() {
				fmt.Fprintln(t.out, "No items in cart")

				return nil
			}

			fmt.Fprintf(t.out, "Current Order (%d items)\n", snap.ItemCount())

			w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tUNIT\tQTY\tLINE")

			for _, line := range snap.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					line.ProductID,
					line.Name,
					money.Format(t.cfg.Display.CurrencySymbol, line.UnitPrice),
					line.Quantity,
					money.Format(t.cfg.Display.CurrencySymbol, line.UnitPrice*float64(line.Quantity)))
			}

			if err := w.Flush(); err != nil {
				return err
			}

			totals := t.cart.Totals()

			fmt.Fprintf(t.out, "Subtotal: %s\n", money.Format(t.cfg.Display.CurrencySymbol, totals.Subtotal))
			fmt.Fprintf(t.out, "Tax (10%%): %s\n", money.Format(t.cfg.Display.CurrencySymbol, totals.Tax))
			fmt.Fprintf(t.out, "Discount: %s\n", money.Format(t.cfg.Display.CurrencySymbol, snap.Discount))
			fmt.Fprintf(t.out, "Total: %s\n", money.Format(t.cfg.Display.CurrencySymbol, totals.Total))

			return nil
		},
	}
}

func (t *Terminal) discountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discount <amount>",
		Short: "Set the order-level discount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
				return apperrors.ValidationError("Discount must be a non-negative number")
			}

			t.cart.SetDiscount(value)
			metrics.CartMutation("discount")
			fmt.Fprintf(t.out, "Discount set to %s\n", money.Format(t.cfg.Display.CurrencySymbol, value))

			return nil
		},
	}
}

func (t *Terminal) taxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tax",
		Short: "Toggle the 10% service charge",
		RunE: func(cmd *cobra.Command, args []string) error {
			if t.cart.ToggleTax() {
				fmt.Fprintln(t.out, "Service charge enabled")
			} else {
				fmt.Fprintln(t.out, "Service charge disabled")
			}

			metrics.CartMutation("tax")

			return nil
		},
	}
}

func (t *Terminal) checkoutCmd() *cobra.Command {
	var method string
	var tendered float64

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Submit the current order",
		RunE: func(cmd *cobra.Command, args []string) error {
			payment := models.PaymentMethod(method)
			if payment != models.PaymentMethodCash && payment != models.PaymentMethodCard {
				return apperrors.ValidationError("Payment method must be cash or card")
			}

			total := t.cart.Totals().Total

			if payment == models.PaymentMethodCash && cmd.Flags().Changed("tendered") && tendered < total {
				t.notifier.Error("Insufficient amount")

				return notified(apperrors.ValidationError("Insufficient amount"))
			}

			order, err := t.checkout.Submit(cmd.Context(), payment)
			if err != nil {
				// Submit renders its own failure notification.
				return notified(err)
			}

			t.printReceipt(order)

			if payment == models.PaymentMethodCash && cmd.Flags().Changed("tendered") {
				change := tendered - order.Total
				if change < 0 {
					change = 0
				}

				fmt.Fprintf(t.out, "Change: %s\n", money.Format(t.cfg.Display.CurrencySymbol, change))
			}

			return nil
		},
	}
	cmd.Flags().StringVar(&method, "method", "cash", "payment method: cash|card")
	cmd.Flags().Float64Var(&tendered, "tendered", 0, "amount tendered (cash only)")

	return cmd
}

func (t *Terminal) printReceipt(order *models.Order) {
	symbol := t.cfg.Display.CurrencySymbol

	fmt.Fprintf(t.out, "Order %s confirmed\n", order.ID)
	fmt.Fprintf(t.out, "Date: %s\n", order.CreatedAt.Local().Format("2006-01-02 15:04:05"))

	for _, item := range order.Items {
		fmt.Fprintf(t.out, "  %s x %d  %s\n", item.Name, item.Quantity, money.Format(symbol, item.Price*float64(item.Quantity)))
	}

	fmt.Fprintf(t.out, "Subtotal: %s  Tax: %s  Discount: %s\n",
		money.Format(symbol, order.Subtotal), money.Format(symbol, order.Tax), money.Format(symbol, order.Discount))
	fmt.Fprintf(t.out, "Total (%s): %s\n", order.PaymentMethod, money.Format(symbol, order.Total))
}

func (t *Terminal) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export admin reports as CSV",
	}

	var ordersFile string

	ordersCmd := &cobra.Command{
		Use:   "orders",
		Short: "Export order history",
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := t.client.ListOrders(cmd.Context())
			if err != nil {
				t.notifier.Error(userMessage(err, "Failed to fetch orders"))

				return notified(err)
			}

			return t.writeReport(ordersFile, func(w io.Writer) error {
				return reports.WriteOrderHistory(w, orders)
			})
		},
	}
	ordersCmd.Flags().StringVar(&ordersFile, "file", "", "output path (default stdout)")

	var dashboardFile string

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Export the sales report",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := t.client.DashboardStats(cmd.Context())
			if err != nil {
				t.notifier.Error(userMessage(err, "Failed to fetch dashboard stats"))

				return notified(err)
			}

			return t.writeReport(dashboardFile, func(w io.Writer) error {
				return reports.WriteDashboard(w, stats)
			})
		},
	}
	dashboardCmd.Flags().StringVar(&dashboardFile, "file", "", "output path (default stdout)")

	cmd.AddCommand(ordersCmd, dashboardCmd)

	return cmd
}

func (t *Terminal) writeReport(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(t.out)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.InternalError("Failed to create report file").WithError(err)
	}
	defer file.Close()

	if err := write(file); err != nil {
		return err
	}

	fmt.Fprintf(t.out, "Report written to %s\n", path)

	return nil
}

func (t *Terminal) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive register mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := bufio.NewReader(t.in)

			for {
				fmt.Fprint(t.out, "pos> ")

				line, err := r.ReadString('\n')
				if err != nil {
					return nil
				}

				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}

				if line == "exit" || line == "quit" {
					return nil
				}

				if err := t.Execute(strings.Fields(line)...); err != nil {
					var done notifiedError
					if !errors.As(err, &done) {
						fmt.Fprintln(t.out, err)
					}
				}
			}
		},
	}
}

// notifiedError marks an error whose message the notifier has already
// rendered, so the shell loop does not echo it a second time.
type notifiedError struct {
	err error
}

func (e notifiedError) Error() string {
	return e.err.Error()
}

func (e notifiedError) Unwrap() error {
	return e.err
}

func notified(err error) error {
	return notifiedError{err: err}
}

// userMessage extracts the human-readable message for notifications,
// falling back when the error is not an AppError.
func userMessage(err error, fallback string) string {
	if appErr, ok := apperrors.IsAppError(err); ok {
		return appErr.Message
	}

	return fallback
}

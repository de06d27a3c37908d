package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dtiestoque.org/internal/client"
	"dtiestoque.org/internal/inventory"
)

var (
	listSearch   string
	listStatus   string
	listLocation int64

	deleteYes bool

	addFields  fieldFlags
	editFields fieldFlags
)

// listCmd prints the cached list narrowed by the filters
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List equipment",
	Long: `List up to 500 equipment rows.

Filters are combined: --search matches type, brand, model, asset tag or
serial number (case-insensitive); --status and --local must match exactly.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// showCmd prints one row from the list
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show equipment details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// addCmd registers a new row
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Register new equipment",
	Args:  cobra.NoArgs,
	RunE:  runAdd,
}

// editCmd replaces the fields of a row; unset flags keep the current value
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit equipment",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

// deleteCmd removes a row after confirmation
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete equipment",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func registerEquipmentCommands() {
	listCmd.Flags().StringVar(&listSearch, "search", "", "Free-text search")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Status (FUNCIONANDO, PARA_DESCARTE, INVENTARIADO, QUEIMADO)")
	listCmd.Flags().Int64Var(&listLocation, "local", 0, "Location id")

	addFields.bind(addCmd)
	editFields.bind(editCmd)

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctrl, err := loadController(cmd, false)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	f := client.Filter{
		Search: listSearch,
		Status: inventory.Status(strings.ToUpper(strings.TrimSpace(listStatus))),
	}
	if cmd.Flags().Changed("local") {
		loc := listLocation
		f.LocationID = &loc
	}
	ctrl.SetFilter(f)

	st := ctrl.State()
	renderTable(cmd.OutOrStdout(), st.Visible)
	fmt.Fprintf(cmd.OutOrStdout(), "%d de %d equipamentos\n", len(st.Visible), len(st.All))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctrl, err := loadController(cmd, false)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	eq, ok := ctrl.Details(id)
	if !ok {
		return fmt.Errorf("%w: %d", client.ErrUnknownEquipment, id)
	}
	renderDetails(cmd.OutOrStdout(), eq)
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctrl, err := loadController(cmd, false)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if err := ctrl.OpenCreate(); err != nil {
		return err
	}
	fields, err := addFields.apply(cmd, inventory.Fields{})
	if err != nil {
		_ = ctrl.Dismiss()
		return err
	}
	if err := fields.Normalize().Validate(); err != nil {
		_ = ctrl.Dismiss()
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()
	return ctrl.Submit(ctx, fields)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctrl, err := loadController(cmd, false)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	current, err := ctrl.OpenEdit(id)
	if err != nil {
		return err
	}
	fields, err := editFields.apply(cmd, current.Fields)
	if err != nil {
		_ = ctrl.Dismiss()
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()
	return ctrl.Submit(ctx, fields)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctrl, err := loadController(cmd, deleteYes)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if eq, ok := ctrl.Details(id); ok && !deleteYes {
		fmt.Fprintf(cmd.OutOrStdout(), "%d  %s %s %s\n", eq.ID, eq.Type, eq.Brand, eq.Model)
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()
	return ctrl.Delete(ctx, id)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// fieldFlags binds one flag per equipment column.
type fieldFlags struct {
	kind     string
	brand    string
	model    string
	assetTag string
	serial   string
	status   string
	location int64
	date     string
	note     string
}

func (f *fieldFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.kind, "tipo", "", "Equipment type")
	fs.StringVar(&f.brand, "marca", "", "Brand")
	fs.StringVar(&f.model, "modelo", "", "Model")
	fs.StringVar(&f.assetTag, "patrimonio", "", "Asset tag")
	fs.StringVar(&f.serial, "serie", "", "Serial number")
	fs.StringVar(&f.status, "status", "", "Status (FUNCIONANDO, PARA_DESCARTE, INVENTARIADO, QUEIMADO)")
	fs.Int64Var(&f.location, "local", 0, "Location id (0 clears)")
	fs.StringVar(&f.date, "data", "", "Registration date YYYY-MM-DD (empty clears)")
	fs.StringVar(&f.note, "obs", "", "Note")
}

// apply overlays the flags set on cmd onto base.
func (f *fieldFlags) apply(cmd *cobra.Command, base inventory.Fields) (inventory.Fields, error) {
	changed := cmd.Flags().Changed
	out := base
	if changed("tipo") {
		out.Type = f.kind
	}
	if changed("marca") {
		out.Brand = f.brand
	}
	if changed("modelo") {
		out.Model = f.model
	}
	if changed("patrimonio") {
		out.AssetTag = optional(f.assetTag)
	}
	if changed("serie") {
		out.SerialNumber = optional(f.serial)
	}
	if changed("status") {
		status := inventory.Status(strings.ToUpper(strings.TrimSpace(f.status)))
		if !status.Known() {
			return inventory.Fields{}, fmt.Errorf("unknown status %q", f.status)
		}
		out.Status = status
	}
	if changed("local") {
		if f.location == 0 {
			out.LocationID = nil
		} else {
			loc := f.location
			out.LocationID = &loc
		}
	}
	if changed("data") {
		if strings.TrimSpace(f.date) == "" {
			out.RegisteredOn = nil
		} else {
			d, err := inventory.ParseDate(f.date)
			if err != nil {
				return inventory.Fields{}, err
			}
			out.RegisteredOn = &d
		}
	}
	if changed("obs") {
		out.Note = optional(f.note)
	}
	return out, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// bchsend sends Bitcoin Cash from a mnemonic-backed wallet to one or more
// P2PKH addresses.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"github.com/bitfsorg/libbchsend-go/config"
	"github.com/bitfsorg/libbchsend-go/journal"
	blog "github.com/bitfsorg/libbchsend-go/log"
	"github.com/bitfsorg/libbchsend-go/metrics"
	"github.com/bitfsorg/libbchsend-go/network"
	"github.com/bitfsorg/libbchsend-go/send"
	"github.com/bitfsorg/libbchsend-go/tx"
	"github.com/bitfsorg/libbchsend-go/wallet"
)

// app carries the resolved settings shared by all subcommands.
type app struct {
	cfg config.Config
	net *wallet.Network
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Global flags appear before the subcommand.
	gfs := flag.NewFlagSet("bchsend", flag.ExitOnError)
	gfs.Usage = usage
	dataDir := gfs.String("datadir", "", "Data directory (default: ~/.bchsend)")
	netName := gfs.String("network", "", "mainnet or testnet")
	backend := gfs.String("backend", "", "Chain backend: rest or rpc")
	nodeURL := gfs.String("node-url", "", "REST base URL or node RPC URL")
	logLevel := gfs.String("log-level", "", "debug, info, warn or error")
	gfs.Parse(os.Args[1:])

	args := gfs.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	dir := *dataDir
	if dir == "" {
		dir = config.DefaultDataDir()
	}
	cfg, err := config.LoadConfig(config.ConfigPath(dir))
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		fatal("%v", err)
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		fatal("%v", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	setIf(&cfg.Network, *netName)
	setIf(&cfg.Backend, *backend)
	setIf(&cfg.NodeURL, *nodeURL)
	setIf(&cfg.LogLevel, *logLevel)

	if err := config.ValidateConfig(cfg); err != nil {
		fatal("%v", err)
	}
	if err := blog.Init(cfg.LogLevel, cfg.LogJSON, cfg.LogFile); err != nil {
		fatal("init logging: %v", err)
	}
	defer blog.Close()
	net, err := wallet.GetNetwork(cfg.Network)
	if err != nil {
		fatal("%v", err)
	}
	a := &app{cfg: cfg, net: net}

	cmd, cmdArgs := args[0], args[1:]
	switch cmd {
	case "new":
		a.cmdNew(cmdArgs)
	case "import":
		a.cmdImport(cmdArgs)
	case "address":
		a.cmdAddress(cmdArgs)
	case "balance":
		a.cmdBalance(cmdArgs)
	case "send":
		a.cmdSend(cmdArgs)
	case "history":
		a.cmdHistory(cmdArgs)
	case "config":
		a.cmdConfig(cmdArgs)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: bchsend [global flags] <command> [flags]

Global flags:
  --datadir <path>    Data directory (default: ~/.bchsend)
  --network <net>     mainnet (default) or testnet
  --backend <name>    rest (default) or rpc
  --node-url <url>    REST base URL or node RPC URL
  --log-level <lvl>   debug, info (default), warn or error

Commands:
  new       Generate a mnemonic and store it in an encrypted keystore
  import    Store an existing mnemonic in an encrypted keystore
  address   Print the wallet address
  balance   Print the balance of the wallet or of --address
  send      Send BCH: send --to <addr>:<amount> [--to ...] [--dry-run]
  history   List sends recorded in the local journal
  config    Write the effective configuration to the data directory

Environment variables (BCHSEND_*) override the config file; flags override both.
`)
}

// ── new / import ───────────────────────────────────────────────────────

func (a *app) cmdNew(args []string) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	words := fs.Int("words", 12, "Mnemonic length: 12 or 24")
	fs.Parse(args)

	bits := wallet.Mnemonic12Words
	switch *words {
	case 12:
	case 24:
		bits = wallet.Mnemonic24Words
	default:
		fatal("--words must be 12 or 24")
	}

	mnemonic, err := wallet.GenerateMnemonic(bits)
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	a.storeMnemonic(mnemonic)
}

func (a *app) cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	fs.Parse(args)

	phrase, err := readSecret("Enter mnemonic: ")
	if err != nil {
		fatal("read mnemonic: %v", err)
	}
	mnemonic := wallet.NormalizeMnemonic(phrase)
	if !wallet.ValidateMnemonic(mnemonic) {
		fatal("%v", wallet.ErrInvalidMnemonic)
	}
	a.storeMnemonic(mnemonic)
}

func (a *app) storeMnemonic(mnemonic string) {
	password, err := readSecret("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readSecret("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if password != confirm {
		fatal("passwords do not match")
	}
	if password == "" {
		fatal("password cannot be empty")
	}

	path := config.KeystorePath(a.cfg.DataDir)
	if err := wallet.SaveKeystore(path, mnemonic, password); err != nil {
		fatal("%v", err)
	}

	key, err := wallet.DeriveChangeKey(mnemonic, a.net)
	if err != nil {
		fatal("derive key: %v", err)
	}
	addr, err := key.Address(a.net)
	if err != nil {
		fatal("derive address: %v", err)
	}
	blog.Wallet.Info().Str("keystore", path).Str("network", a.net.Name).Msg("keystore written")

	fmt.Printf("Keystore: %s\n", path)
	fmt.Printf("Address:  %s\n", addr)
}

// ── address / balance ──────────────────────────────────────────────────

func (a *app) cmdAddress(args []string) {
	fs := flag.NewFlagSet("address", flag.ExitOnError)
	fs.Parse(args)

	id := a.unlock()
	fmt.Println(id.Address)
}

func (a *app) cmdBalance(args []string) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	address := fs.String("address", "", "Address to query (default: wallet address)")
	fs.Parse(args)

	addr := *address
	if addr == "" {
		addr = a.unlock().Address
	} else if _, err := a.net.DecodeAddress(addr); err != nil {
		fatal("%v", err)
	}

	chain := a.chain()
	ctx, cancel := a.signalContext()
	defer cancel()

	balance, err := chain.Balance(ctx, addr)
	if err != nil {
		fatal("balance: %v", err)
	}
	utxos, err := chain.ListUnspent(ctx, addr)
	if err != nil {
		fatal("list unspent: %v", err)
	}

	fmt.Printf("Address:  %s\n", addr)
	fmt.Printf("Balance:  %s BCH\n", balance.StringFixed(8))
	fmt.Printf("UTXOs:    %d\n", len(utxos))
	for _, u := range utxos {
		fmt.Printf("  %s  %s BCH\n", u.Outpoint(), tx.FromSatoshis(u.Amount).StringFixed(8))
	}
}

// ── send ───────────────────────────────────────────────────────────────

func (a *app) cmdSend(args []string) {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	var to recipientsFlag
	fs.Var(&to, "to", "Recipient as address:amount in BCH (repeatable)")
	dryRun := fs.Bool("dry-run", false, "Build and sign without broadcasting")
	feeRate := fs.Float64("fee-rate", -1, "Fee rate in sat/byte (default: config, or 1 per recipient)")
	selector := fs.String("selector", "", "UTXO selector: largest, smallest or exact")
	jsonOut := fs.Bool("json", false, "Print the result as JSON")
	fs.Parse(args)

	if len(to.addresses) == 0 {
		fatal("Usage: bchsend send --to <addr>:<amount> [--to ...] [--dry-run]")
	}

	rate := a.cfg.FeeRate
	if *feeRate >= 0 {
		rate = *feeRate
	}
	selName := a.cfg.Selector
	if *selector != "" {
		selName = *selector
	}
	sel, err := tx.SelectorByName(selName)
	if err != nil {
		fatal("%v", err)
	}
	policy, err := tx.ParseChangePolicy(a.cfg.ChangePolicy)
	if err != nil {
		fatal("%v", err)
	}

	lock, err := send.TryLockWallet(a.cfg.DataDir)
	if err != nil {
		fatal("%v", err)
	}
	defer lock.Release()

	id := a.unlock()

	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(a.net.Name)
	if err := rec.Register(reg); err != nil {
		fatal("register metrics: %v", err)
	}

	sender := send.New(a.chain(), a.net)
	sender.Selector = sel
	sender.FeeRate = rate
	sender.ChangePolicy = policy
	sender.Metrics = rec

	ctx, cancel := a.signalContext()
	defer cancel()

	res, sendErr := sender.Send(ctx, id, to.request(), send.Options{DryRun: *dryRun})
	a.writeMetrics(reg)
	if sendErr != nil {
		var rej *network.RejectError
		if errors.As(sendErr, &rej) {
			fatal("broadcast rejected: %s", rej.Reason)
		}
		fatal("%v", sendErr)
	}

	if res.Broadcast {
		a.record(id.Address, res)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fatal("encode result: %v", err)
		}
		return
	}

	if res.Broadcast {
		fmt.Printf("Submitted: %s\n", res.TxID)
		fmt.Printf("Link:      %s\n", res.Link)
	} else {
		fmt.Printf("Signed (not broadcast): %s\n", res.TxID)
		fmt.Printf("Hex:       %s\n", res.Hex)
	}
	fmt.Printf("Input:     %s (%s BCH)\n", res.Input.Outpoint(), tx.FromSatoshis(res.Input.Amount).StringFixed(8))
	fmt.Printf("Fee:       %d sat\n", res.Fee)
	fmt.Printf("Change:    %s BCH\n", tx.FromSatoshis(res.Change).StringFixed(8))
}

// record appends a broadcast send to the journal. Failures are logged; the
// transaction is already on the network.
func (a *app) record(from string, res *send.Result) {
	store, err := journal.Open(config.JournalPath(a.cfg.DataDir))
	if err != nil {
		blog.Journal.Warn().Err(err).Msg("open journal")
		return
	}
	defer store.Close()

	entry := &journal.Entry{
		TxID:      res.TxID,
		Network:   a.net.Name,
		Link:      res.Link,
		RawHex:    res.Hex,
		From:      from,
		Input:     res.Input.Outpoint(),
		Fee:       res.Fee,
		Change:    res.Change,
		CreatedAt: time.Now().UTC(),
	}
	outputs := res.Outputs
	if res.HasChange {
		outputs = outputs[:len(outputs)-1]
	}
	for _, o := range outputs {
		entry.Recipients = append(entry.Recipients, journal.Recipient{Address: o.Address, Amount: o.Amount})
	}
	if err := store.Put(entry); err != nil {
		blog.Journal.Warn().Err(err).Str("txid", res.TxID).Msg("record send")
	}
}

func (a *app) writeMetrics(g prometheus.Gatherer) {
	if a.cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(a.cfg.MetricsFile, g); err != nil {
		blog.Send.Warn().Err(err).Str("path", a.cfg.MetricsFile).Msg("write metrics")
	}
}

// ── history ────────────────────────────────────────────────────────────

func (a *app) cmdHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum entries to show (0 = all)")
	status := fs.Bool("status", false, "Query the confirmation status of each send")
	fs.Parse(args)

	store, err := journal.Open(config.JournalPath(a.cfg.DataDir))
	if err != nil {
		fatal("%v", err)
	}
	defer store.Close()

	entries, err := store.List(*limit)
	if err != nil {
		fatal("%v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No sends recorded.")
		return
	}

	var statuses network.StatusService
	if *status {
		svc, ok := a.chain().(network.StatusService)
		if !ok {
			fatal("backend %s cannot report transaction status", a.cfg.Backend)
		}
		statuses = svc
	}
	ctx, cancel := a.signalContext()
	defer cancel()

	for _, e := range entries {
		var total uint64
		for _, r := range e.Recipients {
			total += r.Amount
		}
		fmt.Printf("%s  %s  %s BCH to %d recipient(s), fee %d sat\n",
			e.CreatedAt.Local().Format(time.DateTime), e.TxID,
			tx.FromSatoshis(total).StringFixed(8), len(e.Recipients), e.Fee)
		if statuses == nil {
			continue
		}
		st, err := statuses.GetTxStatus(ctx, e.TxID)
		switch {
		case errors.Is(err, network.ErrTxNotFound):
			fmt.Println("    status: not found")
		case err != nil:
			fmt.Printf("    status: %v\n", err)
		case st.Confirmed:
			fmt.Printf("    status: %d confirmation(s), block %d\n", st.Confirmations, st.BlockHeight)
		default:
			fmt.Println("    status: unconfirmed")
		}
	}
}

// ── config ─────────────────────────────────────────────────────────────

func (a *app) cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	fs.Parse(args)

	path := config.ConfigPath(a.cfg.DataDir)
	if err := config.SaveConfig(path, a.cfg); err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}

// ── helpers ────────────────────────────────────────────────────────────

// unlock decrypts the keystore and returns the wallet identity.
func (a *app) unlock() wallet.Identity {
	password, err := readSecret("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	mnemonic, err := wallet.LoadKeystore(config.KeystorePath(a.cfg.DataDir), password)
	if err != nil {
		if errors.Is(err, wallet.ErrKeystoreNotFound) {
			fatal("no keystore in %s (run \"bchsend new\" or \"bchsend import\")", a.cfg.DataDir)
		}
		fatal("unlock keystore: %v", err)
	}

	key, err := wallet.DeriveChangeKey(mnemonic, a.net)
	if err != nil {
		fatal("derive key: %v", err)
	}
	addr, err := key.Address(a.net)
	if err != nil {
		fatal("derive address: %v", err)
	}
	return wallet.Identity{Address: addr, Mnemonic: mnemonic}
}

// backendConfig maps the merged file, environment and flag settings onto the
// chain backend configuration.
func backendConfig(cfg config.Config, netName string) (*network.Config, error) {
	return network.ResolveConfig(&network.Config{
		Backend:  cfg.Backend,
		URL:      cfg.NodeURL,
		User:     cfg.RPCUser,
		Password: cfg.RPCPassword,
	}, netName)
}

func (a *app) chain() network.ChainService {
	ncfg, err := backendConfig(a.cfg, a.net.Name)
	if err != nil {
		fatal("%v", err)
	}
	chain, err := network.NewChainService(ncfg)
	if err != nil {
		fatal("%v", err)
	}
	blog.Network.Debug().Str("backend", ncfg.Backend).Str("url", ncfg.URL).Msg("chain backend")
	return chain
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func (a *app) signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// readSecret reads a line without echo from a terminal, or a plain line when
// stdin is redirected.
func readSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)
	raw, err := term.ReadPassword(fd)
	if err != nil {
		return "", err
	}
	s := string(raw)
	clear(raw)
	return s, nil
}

var stdin = bufio.NewReader(os.Stdin)

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

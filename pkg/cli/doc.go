/*
Package cli provides command-line utilities shared by the hotreload command.

The package includes output formatters and the common helpers the subcommands
use for error reporting and shutdown.

Output Formatting:

Commands that support --format render their results through a Formatter:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

The supervisor blocks on WaitForShutdown to drive its graceful teardown:

	sigChan := cli.WaitForShutdown()
	select {
	case err := <-errChan:
		// component failure
	case sig := <-sigChan:
		// SIGINT/SIGTERM: stop the poller, drain the journal, exit
	}
*/
package cli

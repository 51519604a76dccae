// Command marquee curates movie and TV picks from the catalog for a feed type.
//
// The root command wires configuration, logging, the catalog client, and the
// schedule store, then dispatches to subcommands:
//
//	marquee curate --feed weekly [--commit] [--json]
//	marquee explain movie 603 --feed anniversary
//	marquee posts list|add|remove|cooldown
//	marquee config init|validate|show
//	marquee notify test
//	marquee status
//
// Configuration is loaded once per invocation; commands annotated with
// skipConfigLoad run without it.
package main

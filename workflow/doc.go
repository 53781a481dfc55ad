// Copyright (c) Resume-RAG Authors.
// Licensed under the MIT License.

/*
Package workflow provides a generic state-graph orchestration engine.

# Overview

A workflow is a closed set of typed steps connected by static or dynamically
computed edges. Each step receives the current state and returns a partial,
declarative update: one changeset.ChangeSet per state field it wants to
touch. The engine resolves the graph once, runs steps in supersteps and folds
every update into the accumulated state.

# Core types

  - Endpoint[S]             — a step, or one of the START / END sentinels
  - StaticEdge / DynamicEdge — fixed transitions and state-driven decisions
  - Definition[S, St, U]    — the workflow descriptor (steps, edges, actions)
  - Action / ActionFunc / AsyncActionFunc — step implementations
  - Engine[S, St, U]        — compiled workflow; implements AgentGraph and
    AsyncAgentGraph
  - Future[T]               — result handle for asynchronous invocation

# Execution model

Execution proceeds in supersteps. Every step active in a superstep runs
against the same snapshot of the state; a single step runs inline, several
run concurrently. Their updates are merged in completion order, or rejected
on overlap when WithStrictMerge is set. The next superstep is the
deduplicated union of the static targets and dynamic decisions of the steps
that just ran, so a step reached from several branches runs once after all
of them finished. A run ends when no step is left to run.

Cycles are allowed. Use context cancellation or WithMaxSupersteps to bound
runs that may not reach END.
*/
package workflow

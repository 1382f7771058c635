// Package tasks implements the academy content sync routine.
//
// # Components
//
//  1. [Resolver] : lookup-or-create for reference labels
//     - blank names resolve to "" without touching the store
//     - missing names are created with one atomic upsert keyed on the unique name
//
//  2. [Reconciler] : makes the content_focus_areas rows of one item equal its focus area set
//     - deletes the old links while resolving the new names, concurrently
//     - writes the new links in one batch once both finish
//
//  3. [ContentWriter] : inserts or updates the academy_content row
//     - [models.ContentRecord.IsPersisted] picks update over insert, never the id
//     - an insert that returns no row is [shared.ErrPersistenceInconsistency]
//
//  4. [ContentSyncer] : the orchestrator exposed to the HTTP and CLI layers
//     - Save, Remove, FetchOne, FetchPage, Catalog, SeedCatalog
//
// # Save Pipeline
//
// Save runs four [Stage] values in order, each consuming the previous stage's output:
// validate, resolve category, write content, reconcile focus areas. The first failure
// stops the pipeline and is returned as one [*SaveError]. Nothing is rolled back; a
// failure after the content write leaves the row in place with stale or missing links,
// which the next successful save repairs.
//
// # Errors
//
// Every component wraps store failures with a sentinel from package shared
// ([shared.ErrResolver], [shared.ErrJunctionSync], [shared.ErrContentWrite]) so callers can
// branch with [errors.Is]. [SaveError] unwraps to both [shared.ErrSaveFailed] and the
// stage error.
package tasks

/*
Package contextsource loads the data context templates are rendered against.

Context files can be written in JSON, TOML, YAML or HCL. Every format is decoded
into the same domain.Value shape: non-JSON documents are converted through a
JSON bridge, so a context written equivalently in two formats yields identical
values.

Two sources implement ports.ContextSource:

  - Static loads once and never changes.
  - Watched holds the value in a lock-guarded cell and reloads it whenever the
    backing file changes. A failed reload is logged and the previous value is
    kept; readers never observe a partial write and never block on disk I/O.
*/
package contextsource

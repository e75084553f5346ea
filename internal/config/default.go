package config

// defaultReferenceTOML is the reference file written on first run. The
// four vegetable types and two structures give a new garden something to
// work with; real deployments replace this file.
const defaultReferenceTOML = `# Gardenplot reference data.
# Vegetable types are immutable reference data loaded at startup.
# Structures are blocked polygonal areas in canvas coordinates.

[garden]
name = "default"
width = 800
height = 600

[[vegetables]]
id = 1
name = "Tomato"
description = "Indeterminate salad tomato"
cycle_days = 120
sow_start_month = 9
sow_end_month = 12
pests = ["aphid", "whitefly", "hornworm"]
care_notes = ["stake at 30cm", "water at the base, not the leaves"]
footprint = 0.5
min_spacing = 40.0

[[vegetables]]
id = 2
name = "Lettuce"
description = "Loose-leaf lettuce"
cycle_days = 60
sow_start_month = 3
sow_end_month = 9
pests = ["slug", "aphid"]
care_notes = ["harvest outer leaves first"]
footprint = 0.1
min_spacing = 20.0

[[vegetables]]
id = 3
name = "Carrot"
description = "Nantes-type carrot"
cycle_days = 90
sow_start_month = 2
sow_end_month = 10
pests = ["carrot fly"]
care_notes = ["thin seedlings to spacing", "keep soil loose"]
footprint = 0.05
min_spacing = 8.0

[[vegetables]]
id = 4
name = "Pepper"
description = "Sweet bell pepper"
cycle_days = 110
sow_start_month = 10
sow_end_month = 1
pests = ["aphid", "spider mite"]
care_notes = ["needs warm soil to germinate"]
footprint = 0.3
min_spacing = 35.0

[[structures]]
id = "shed"
name = "Tool shed"
category = "building"
description = "Wooden tool shed in the corner"
polygon = [[700, 0], [800, 0], [800, 100], [700, 100]]

[[structures]]
id = "main-path"
name = "Main path"
category = "path"
description = "Gravel path crossing the plot"
polygon = [[0, 280], [800, 280], [800, 320], [0, 320]]
`

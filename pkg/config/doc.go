/*
Package config loads and validates the settings for a blurrc batch run.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   JSON   | |   YAML   | |   HCL    |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Reads a config file chosen by extension
- Applies defaults (input_images -> output_images, one worker per core, 5% baseline)
- Validates ranges and glob patterns

🔍 Example:

	cfg, err := config.LoadConfig(ctx, "blurrc.yaml")
	if err != nil {
		return err
	}
	fmt.Println(cfg)

Command line flags override file values after loading; call Validate again
after overriding.
*/
package config

package catalog

import "github.com/san-kum/mllab/internal/sim"

var topics = []Topic{
	{
		ID:          "intro",
		Title:       "Introduction to ML",
		Type:        General,
		Description: "The foundation of teaching computers to learn from data.",
		Content: "Machine Learning (ML) is a subset of artificial intelligence (AI) that focuses on building systems that learn, or improve performance, based on data they consume.\n\n" +
			"Instead of explicitly programming rules (e.g., \"if x > 5 then do y\"), we provide the machine with data and allow it to discover patterns and rules on its own.",
		UseCases: []string{"Spam Detection", "Recommendation Systems", "Self-driving Cars"},
		Viz:      sim.KindNone,
	},
	{
		ID:          "linear-regression",
		Title:       "Linear Regression",
		Type:        Supervised,
		Description: "Predicting a continuous value based on input features.",
		Content:     "Linear regression attempts to model the relationship between two variables by fitting a linear equation to observed data. One variable is considered to be an explanatory variable, and the other is considered to be a dependent variable.",
		Math: []MathSection{
			{
				Title:   "Hypothesis Function",
				Content: "The predicted value y-hat is a linear combination of weights and inputs.",
				Formula: `h_\theta(x) = \theta_0 + \theta_1 x`,
			},
			{
				Title:   "Cost Function (MSE)",
				Content: "We measure accuracy using the Mean Squared Error.",
				Formula: `J(\theta) = \frac{1}{2m} \sum_{i=1}^{m} (h_\theta(x^{(i)}) - y^{(i)})^2`,
			},
			{
				Title:   "Gradient Descent Update",
				Content: "We update weights to minimize the cost function.",
				Formula: `\theta_j := \theta_j - \alpha \frac{\partial}{\partial \theta_j} J(\theta)`,
			},
		},
		UseCases: []string{"House Price Prediction", "Sales Forecasting", "Risk Assessment"},
		Viz:      sim.KindLinear,
	},
	{
		ID:          "neural-networks",
		Title:       "Neural Networks",
		Type:        Supervised,
		Description: "Modeling complex patterns using layers of interconnected nodes.",
		Content:     "Neural networks are computing systems inspired by the biological neural networks that constitute animal brains. An ANN is based on a collection of connected units or nodes called artificial neurons, which loosely model the neurons in a biological brain.",
		Math: []MathSection{
			{
				Title:   "Neuron Activation",
				Content: "Input is weighted, summed, plus a bias, then passed through an activation function.",
				Formula: `a = \sigma(\sum w_i x_i + b)`,
			},
		},
		UseCases: []string{"Image Recognition", "Natural Language Processing", "Game AI"},
		Viz:      sim.KindNeural,
	},
	{
		ID:          "k-means",
		Title:       "K-Means Clustering",
		Type:        Unsupervised,
		Description: "Partitioning data into K distinct clusters based on feature similarity.",
		Content:     "K-Means is an iterative algorithm that tries to partition the dataset into K pre-defined distinct non-overlapping subgroups (clusters) where each data point belongs to only one group.",
		Math: []MathSection{
			{
				Title:   "Objective Function",
				Content: "Minimize the within-cluster sum of squares (WCSS).",
				Formula: `J = \sum_{i=1}^{k} \sum_{x \in S_i} ||x - \mu_i||^2`,
			},
		},
		UseCases: []string{"Customer Segmentation", "Document Clustering", "Image Compression"},
		Viz:      sim.KindKMeans,
	},
	{
		ID:          "pca",
		Title:       "Principal Component Analysis",
		Type:        Unsupervised,
		Description: "Dimensionality reduction that preserves the most important patterns in the data.",
		Content: "Principal Component Analysis (PCA) is a technique used to emphasize variation and bring out strong patterns in a dataset. It's often used to make data easy to explore and visualize.\n\n" +
			"It works by finding the \"principal components\" - the directions where there is the most variance, the most information. It then projects the data onto these components, allowing us to reduce dimensions (e.g., from 3D to 2D) with minimal loss of information.",
		Math: []MathSection{
			{
				Title:   "Covariance Matrix",
				Content: "Measures how two variables change together.",
				Formula: `\Sigma = \frac{1}{m} \sum_{i=1}^{m} (x^{(i)})(x^{(i)})^T`,
			},
			{
				Title:   "Eigenvalue Equation",
				Content: "Finding vectors (u) that only scale (by lambda) when transformed.",
				Formula: `\Sigma u = \lambda u`,
			},
		},
		UseCases: []string{"Data Visualization", "Noise Reduction", "Feature Extraction"},
		Viz:      sim.KindPCA,
	},
}
